package main

import (
	"fmt"
	"strings"

	"github.com/AsifAhmedTanjid/portfolio_contact_relay/contactform"
	"github.com/spf13/cobra"
)

var (
	sendEndpoint string
	sendName     string
	sendEmail    string
	sendMessage  string
	sendToken    string
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Submit a contact message to a running relay",
	Example: `  relay send --endpoint http://localhost:8080 \
    --name "Ada" --email ada@example.com --message "Hello"`,
	RunE: runSend,
}

func init() {
	sendCmd.Flags().StringVar(&sendEndpoint, "endpoint", "http://localhost:8080", "relay base URL")
	sendCmd.Flags().StringVar(&sendName, "name", "", "your name")
	sendCmd.Flags().StringVar(&sendEmail, "email", "", "your email address")
	sendCmd.Flags().StringVar(&sendMessage, "message", "", "message body")
	sendCmd.Flags().StringVar(&sendToken, "token", "", "Turnstile response token, when the relay requires one")
	for _, name := range []string{"name", "email", "message"} {
		_ = sendCmd.MarkFlagRequired(name)
	}
}

func runSend(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	form := contactform.New(strings.TrimRight(sendEndpoint, "/")+contactform.DefaultEndpoint,
		contactform.WithNotifier(func(n contactform.Notification) {
			fmt.Fprintf(out, "%s %s\n", n.Title, n.Description)
		}))

	values := map[string]string{"name": sendName, "email": sendEmail, "message": sendMessage}
	if sendToken != "" {
		values["token"] = sendToken
	}
	for field, value := range values {
		if err := form.Set(field, value); err != nil {
			return err
		}
	}

	_, err := form.Submit(cmd.Context())
	return err
}
