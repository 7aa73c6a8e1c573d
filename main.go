// main is the entry point for the foresight CLI.
package main

import (
	"fmt"
	"os"

	"github.com/gamelens/foresight/cmd"
	"github.com/gamelens/foresight/internal/modelstore"
)

func main() {
	defer modelstore.CloseStore()

	// Commands resolve the model store through the shared manager.
	cmd.SetStoreManager(modelstore.Manager)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
