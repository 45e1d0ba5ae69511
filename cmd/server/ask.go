package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/MYSTERY2804/kisan-sathi-sahyayak/internal/models"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer one question from the command line",
	Long:  `Runs the same search → prompt → model pipeline as POST /ask and prints the answer with its sources.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

var (
	askJSON           bool
	askConversationID string
)

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "print the HTTP response body instead of text")
	askCmd.Flags().StringVar(&askConversationID, "conversation-id", "", "conversation id to echo back")
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := log.Logger.WithContext(cmd.Context())
	d, err := buildDeps(ctx, cfg)
	if err != nil {
		return err
	}
	defer d.Close()

	req := models.AskRequest{Question: strings.Join(args, " ")}
	if askConversationID != "" {
		req.ConversationID = &askConversationID
	}
	if err := req.Validate(); err != nil {
		return err
	}

	resp, err := d.rag.Answer(ctx, req)
	if err != nil {
		return errors.Wrap(err, "Error processing request")
	}
	return printAnswer(cmd.OutOrStdout(), resp, askJSON)
}

// printAnswer writes the answer followed by numbered sources, or the raw JSON body.
func printAnswer(w io.Writer, resp *models.AskResponse, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	if _, err := fmt.Fprintln(w, strings.TrimSpace(resp.Answer)); err != nil {
		return err
	}
	if len(resp.Sources) == 0 {
		return nil
	}

	fmt.Fprintln(w, "\nSources:")
	for i, s := range resp.Sources {
		line := fmt.Sprintf("  %d. %s", i+1, s.Title)
		if s.URL != "" {
			line += " <" + s.URL + ">"
		}
		fmt.Fprintln(w, line)
	}
	return nil
}
