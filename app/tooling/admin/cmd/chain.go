package cmd

import (
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/spf13/cobra"
)

var latest bool

var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "Show the chain of blocks",
	Run:   chainRun,
}

func init() {
	rootCmd.AddCommand(chainCmd)
	chainCmd.Flags().BoolVarP(&latest, "latest", "l", false, "Show only the latest block.")
}

func chainRun(cmd *cobra.Command, args []string) {
	endpoint := fmt.Sprintf("%s/v1/chain", url)
	if latest {
		endpoint = fmt.Sprintf("%s/v1/blocks/latest", url)
	}

	resp, err := http.Get(endpoint)
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(string(body))
}
