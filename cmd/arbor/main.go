package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/arbor-network/arbor/lib"
	"github.com/arbor-network/arbor/lib/crypto"
	"github.com/arbor-network/arbor/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "arbor",
	Short: "arbor is a versioned, authenticated state engine for blockchain ledgers",
}

var (
	config  = lib.Config{}
	l       = lib.LoggerI(nil)
	dataDir = ""
)

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(stateCmd)
	rootCmd.AddCommand(headerCmd)
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", lib.DefaultDataDirPath(), "custom data directory location")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "write a default config file into the data directory",
	Run: func(cmd *cobra.Command, args []string) {
		c := lib.DefaultConfig()
		c.DataDirPath = dataDir
		if err := c.WriteToFile(dataDir); err != nil {
			log.Fatal(err.Error())
		}
		fmt.Printf("wrote %s\n", filepath.Join(dataDir, lib.ConfigFileName))
	},
}

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "print the last committed height, root, and epoch",
	Run: func(cmd *cobra.Command, args []string) {
		s := openStore()
		defer func() { _ = s.Close() }()
		root, height, ok := s.GetState()
		if !ok {
			fmt.Println("no committed state")
			return
		}
		printJSON(map[string]any{
			"height": height,
			"root":   crypto.AddressString(root),
			"epoch":  s.Epoch(),
			"hash":   crypto.AddressString(s.LastBlockHash()),
		})
	},
}

var headerCmd = &cobra.Command{
	Use:   "header <height>",
	Short: "print the block header committed at a height",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		height, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			log.Fatal(err.Error())
		}
		s := openStore()
		defer func() { _ = s.Close() }()
		header, e := s.GetBlockHeader(height)
		if e != nil {
			l.Fatal(e.Error())
		}
		printJSON(map[string]any{
			"height": header.Height,
			"hash":   crypto.AddressString(header.Hash),
			"time":   header.Timestamp().String(),
			"epoch":  header.Epoch,
		})
	},
}

// openStore() loads the config from the data directory and opens the engine
// over the committed state
func openStore() *store.Storage {
	var err lib.ErrorI
	config, err = lib.NewConfigFromFile(filepath.Join(dataDir, lib.ConfigFileName))
	if err != nil {
		config = lib.DefaultConfig()
		config.DataDirPath = dataDir
	}
	l = lib.NewLogger(lib.LoggerConfig{Level: config.LogLevel, Out: os.Stdout})
	s, err := store.Open(config, l)
	if err != nil {
		l.Fatal(err.Error())
	}
	if err = s.LoadLastState(); err != nil {
		l.Fatal(err.Error())
	}
	return s
}

func printJSON(v any) {
	bz, err := lib.MarshalJSONIndent(v)
	if err != nil {
		log.Fatal(err.Error())
	}
	fmt.Println(string(bz))
}
