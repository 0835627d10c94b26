package cmd

import (
	"context"
	"fmt"

	"github.com/nikogura/portfolio/pkg/config"
	"github.com/nikogura/portfolio/pkg/contact"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var contactName string

//nolint:gochecknoglobals // Cobra boilerplate
var contactEmail string

//nolint:gochecknoglobals // Cobra boilerplate
var contactSubject string

//nolint:gochecknoglobals // Cobra boilerplate
var contactMessage string

//nolint:gochecknoglobals // Cobra boilerplate
var contactRelayURL string

//nolint:gochecknoglobals // Cobra boilerplate
var contactCmd = &cobra.Command{
	Use:   "contact",
	Short: "Send a message through the contact form relay",
	Long: `Send a contact form submission to the configured relay endpoint.

All four fields are required. Nothing is sent when one is missing.

Example:
  portfolio contact --name "Ann" --email ann@example.com --subject "Hello" --message "Let's talk"`,
	Args: cobra.NoArgs,
	RunE: runContact,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(contactCmd)
	contactCmd.Flags().StringVar(&contactName, "name", "", "Your name")
	contactCmd.Flags().StringVar(&contactEmail, "email", "", "Your email address")
	contactCmd.Flags().StringVar(&contactSubject, "subject", "", "Message subject")
	contactCmd.Flags().StringVar(&contactMessage, "message", "", "Message body")
	contactCmd.Flags().StringVar(&contactRelayURL, "relay-url", "", "Relay endpoint (default from config)")
}

// getRelayURL returns the relay endpoint from flag, config, or environment.
func getRelayURL() (relayURL string, err error) {
	relayURL = contactRelayURL
	if relayURL != "" {
		return relayURL, err
	}

	var cfg config.Config
	cfg, err = config.Read(getConfigFile())
	if err != nil {
		if !errors.Is(err, config.ErrNotFound) {
			err = errors.Wrap(err, "failed to load config")
			return relayURL, err
		}

		cfg = config.Config{}
		err = cfg.ApplyEnv()
		if err != nil {
			return relayURL, err
		}
	}

	relayURL = cfg.RelayURL
	if relayURL == "" {
		err = errors.New("no relay endpoint (set relay_url in config, PORTFOLIO_RELAY_URL, or --relay-url)")
		return relayURL, err
	}

	return relayURL, err
}

func runContact(cmd *cobra.Command, args []string) (err error) {
	ctx, cancel := context.WithTimeout(cmd.Context(), contact.RelayTimeout)
	defer cancel()

	var relayURL string
	relayURL, err = getRelayURL()
	if err != nil {
		return err
	}

	if getVerbose() {
		fmt.Printf("Relaying contact form to %s\n", relayURL)
	}

	controller := contact.NewController(contact.NewClient(relayURL))
	controller.Fill(contact.Form{
		Name:    contactName,
		Email:   contactEmail,
		Subject: contactSubject,
		Message: contactMessage,
	})

	err = controller.Submit(ctx)
	fmt.Println(controller.Message())
	if err != nil {
		err = errors.Wrap(err, "contact form not sent")
		return err
	}

	return err
}
