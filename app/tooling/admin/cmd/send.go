package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var (
	txType string
	to     string
	amount uint64
	fee    uint64
	data   string
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a transaction signed with the configured account",
	Run:   sendRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&txType, "type", "y", "transfer", "Type of the transaction.")
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Address to send to.")
	sendCmd.Flags().Uint64VarP(&amount, "amount", "m", 0, "Amount to send.")
	sendCmd.Flags().Uint64VarP(&fee, "fee", "f", 0, "Fee to pay.")
	sendCmd.Flags().StringVarP(&data, "data", "d", "", "Data to attach.")
}

func sendRun(cmd *cobra.Command, args []string) {
	privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
	if err != nil {
		log.Fatal(err)
	}
	from := crypto.PubkeyToAddress(privateKey.PublicKey).String()

	payload := struct {
		Type   string `json:"type"`
		From   string `json:"from"`
		To     string `json:"to"`
		Amount uint64 `json:"amount"`
		Fee    uint64 `json:"fee"`
		Data   string `json:"data"`
	}{
		Type:   txType,
		From:   from,
		To:     to,
		Amount: amount,
		Fee:    fee,
		Data:   data,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		log.Fatal(err)
	}

	resp, err := http.Post(fmt.Sprintf("%s/v1/tx/submit", url), "application/json", bytes.NewBuffer(body))
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	result, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(string(result))
}
