package main

import (
	"fmt"
	"net/url"

	httpinterface "github.com/tswap-network/tswap-daemon/internal/interfaces/http"
	"github.com/urfave/cli/v2"
)

var webhook = cli.Command{
	Name:  "webhook",
	Usage: "add, list or remove webhooks",
	Subcommands: []*cli.Command{
		webhookAddCmd, webhookListCmd, webhookRemoveCmd,
	},
}

var (
	webhookAddCmd = &cli.Command{
		Name:  "add",
		Usage: "add a (secured) webhook endpoint called whenever a target event occurs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "endpoint",
				Usage:    "the endpoint to notify",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "secret",
				Usage: "the secret used to sign the bearer token of requests",
			},
			&cli.StringFlag{
				Name:  "event",
				Usage: "the target event: TRADE_SETTLED, TRADE_FAILED, POOL_CLOSED or * for any",
				Value: "*",
			},
		},
		Action: webhookAddAction,
	}
	webhookListCmd = &cli.Command{
		Name:  "list",
		Usage: "list all webhooks, optionally filtered by target event",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "event",
				Usage: "the target event",
			},
		},
		Action: webhookListAction,
	}
	webhookRemoveCmd = &cli.Command{
		Name:  "remove",
		Usage: "remove a webhook",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "id",
				Usage:    "the id of the webhook",
				Required: true,
			},
		},
		Action: webhookRemoveAction,
	}
)

func webhookAddAction(ctx *cli.Context) error {
	client, err := getOperatorClient()
	if err != nil {
		return err
	}

	var resp httpinterface.Webhook
	if err := client.post("/v1/webhooks", httpinterface.AddWebhookRequest{
		Event:    ctx.String("event"),
		Endpoint: ctx.String("endpoint"),
		Secret:   ctx.String("secret"),
	}, &resp); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("hook id:", resp.ID)
	return nil
}

func webhookListAction(ctx *cli.Context) error {
	client, err := getOperatorClient()
	if err != nil {
		return err
	}
	path := "/v1/webhooks"
	if event := ctx.String("event"); event != "" {
		path += "?event=" + url.QueryEscape(event)
	}

	var resp []httpinterface.Webhook
	if err := client.get(path, &resp); err != nil {
		return err
	}
	printRespJSON(resp)
	return nil
}

func webhookRemoveAction(ctx *cli.Context) error {
	client, err := getOperatorClient()
	if err != nil {
		return err
	}

	id := ctx.String("id")
	if err := client.do(
		"DELETE", "/v1/webhooks/"+url.PathEscape(id), nil, nil,
	); err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("removed hook %s\n", id)
	return nil
}
