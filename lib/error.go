package lib

import (
	"fmt"
	"math"
)

// ErrorI is the coded error type used across the project. Carrying a code and
// a module lets callers branch on the class of failure without string matching.
type ErrorI interface {
	Code() ErrorCode     // returns the error code
	Module() ErrorModule // returns the module the error originated from
	error                // implements the built-in error interface
}

var _ ErrorI = &Error{} // ensure *Error implements ErrorI

type ErrorCode uint32 // defines a type for error codes

type ErrorModule string // defines a type for error modules

type Error struct {
	ECode   ErrorCode   `json:"code"`   // error code
	EModule ErrorModule `json:"module"` // error module
	Msg     string      `json:"msg"`    // error message
}

// NewError() constructs a new Error instance
func NewError(code ErrorCode, module ErrorModule, msg string) *Error {
	return &Error{ECode: code, EModule: module, Msg: msg}
}

// Code() returns the associated error code
func (p *Error) Code() ErrorCode { return p.ECode }

// Module() returns the module field
func (p *Error) Module() ErrorModule { return p.EModule }

// String() calls Error()
func (p *Error) String() string { return p.Error() }

// Error() returns a formatted string including module, code, and message
func (p *Error) Error() string {
	return fmt.Sprintf("\nModule:  %s\nCode:    %d\nMessage: %s", p.EModule, p.ECode, p.Msg)
}

const (
	NoCode ErrorCode = math.MaxUint32

	// Main Module
	MainModule ErrorModule = "main"

	// Main Module Error Codes
	CodeJSONMarshal   ErrorCode = 1
	CodeJSONUnmarshal ErrorCode = 2
	CodeMarshal       ErrorCode = 3
	CodeUnmarshal     ErrorCode = 4
	CodeWriteFile     ErrorCode = 5
	CodeReadFile      ErrorCode = 6
	CodeLogWrite      ErrorCode = 7

	// Storage Module
	StorageModule ErrorModule = "store"

	// Storage Module Error Codes
	CodeKeyParse          ErrorCode = 1
	CodeDecode            ErrorCode = 2
	CodePrunedHeight      ErrorCode = 3
	CodeNotYetCommitted   ErrorCode = 4
	CodeContractViolation ErrorCode = 5
	CodeOpenDB            ErrorCode = 6
	CodeCloseDB           ErrorCode = 7
	CodeCommitDB          ErrorCode = 8
	CodeStoreGet          ErrorCode = 9
	CodeStoreSet          ErrorCode = 10
	CodeStoreDelete       ErrorCode = 11
	CodeStoreIter         ErrorCode = 12
	CodeInvalidKey        ErrorCode = 13
	CodeInvalidMerkleTree ErrorCode = 14
	CodeInvalidEpoch      ErrorCode = 15
	CodeTxClosed          ErrorCode = 16
)

func ErrJSONMarshal(err error) ErrorI {
	return NewError(CodeJSONMarshal, MainModule, fmt.Sprintf("jsonMarshal() failed with err: %s", err.Error()))
}

func ErrJSONUnmarshal(err error) ErrorI {
	return NewError(CodeJSONUnmarshal, MainModule, fmt.Sprintf("jsonUnmarshal() failed with err: %s", err.Error()))
}

func ErrMarshal(err error) ErrorI {
	return NewError(CodeMarshal, MainModule, fmt.Sprintf("marshal() failed with err: %s", err.Error()))
}

func ErrUnmarshal(err error) ErrorI {
	return NewError(CodeUnmarshal, MainModule, fmt.Sprintf("unmarshal() failed with err: %s", err.Error()))
}

func ErrWriteFile(err error) ErrorI {
	return NewError(CodeWriteFile, MainModule, fmt.Sprintf("writeFile() failed with err: %s", err.Error()))
}

func ErrReadFile(err error) ErrorI {
	return NewError(CodeReadFile, MainModule, fmt.Sprintf("readFile() failed with err: %s", err.Error()))
}

func newLogError(err error) ErrorI {
	return NewError(CodeLogWrite, MainModule, fmt.Sprintf("log write failed with err: %s", err.Error()))
}

// ErrKeyParse() rejects a malformed storage key; recoverable, the caller's
// input is refused before any state is touched
func ErrKeyParse(key, reason string) ErrorI {
	return NewError(CodeKeyParse, StorageModule, fmt.Sprintf("cannot parse key %q: %s", key, reason))
}
