package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	httpinterface "github.com/tswap-network/tswap-daemon/internal/interfaces/http"
	"github.com/urfave/cli/v2"
)

const (
	operatorURLKey = "operator_url"
	tradeURLKey    = "trade_url"
	ownerKey       = "owner"
)

var (
	tswapDataDir = btcutil.AppDataDir("tswap-cli", false)
	statePath    = filepath.Join(tswapDataDir, "state.json")

	httpClient = &http.Client{Timeout: 30 * time.Second}
)

func main() {
	app := cli.NewApp()

	app.Version = "0.1.0"
	app.Name = "tswap CLI"
	app.Usage = "Command line interface for tswapd pool owners and takers"
	app.Commands = append(
		app.Commands,
		&config,
		&pool,
		&buy,
		&sell,
		&trades,
		&escrow,
		&nft,
		&account,
		&webhook,
	)

	err := app.Run(os.Args)
	if err != nil {
		fatal(err)
	}
}

func getState() (map[string]string, error) {
	data := map[string]string{}

	file, err := os.ReadFile(statePath)
	if err != nil {
		return nil, errors.New("get config state error: try 'config init'")
	}
	if err := json.Unmarshal(file, &data); err != nil {
		return nil, fmt.Errorf("invalid config state: %w", err)
	}

	return data, nil
}

func setState(data map[string]string) error {
	if _, err := os.Stat(tswapDataDir); os.IsNotExist(err) {
		if err := os.MkdirAll(tswapDataDir, os.ModeDir|0755); err != nil {
			return err
		}
	}

	currentData := map[string]string{}
	if _, err := os.Stat(statePath); err == nil {
		if currentData, err = getState(); err != nil {
			return err
		}
	}

	mergedData := merge(currentData, data)

	jsonString, err := json.Marshal(mergedData)
	if err != nil {
		return err
	}
	if err := os.WriteFile(statePath, jsonString, 0644); err != nil {
		return fmt.Errorf("writing to file: %w", err)
	}

	return nil
}

func merge(maps ...map[string]string) map[string]string {
	merge := make(map[string]string, 0)
	for _, m := range maps {
		for k, v := range m {
			merge[k] = v
		}
	}
	return merge
}

func printRespJSON(resp interface{}) {
	buf, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		fmt.Println("unable to decode response: ", err)
		return
	}
	fmt.Println(string(buf))
}

type client struct {
	baseURL string
}

func getOperatorClient() (*client, error) {
	return getClient(operatorURLKey)
}

func getTradeClient() (*client, error) {
	return getClient(tradeURLKey)
}

func getClient(key string) (*client, error) {
	state, err := getState()
	if err != nil {
		return nil, err
	}
	url, ok := state[key]
	if !ok {
		return nil, fmt.Errorf("set %s with `config set %s`", key, key)
	}
	return &client{strings.TrimSuffix(url, "/")}, nil
}

func (c *client) get(path string, resp interface{}) error {
	return c.do(http.MethodGet, path, nil, resp)
}

func (c *client) post(path string, body, resp interface{}) error {
	return c.do(http.MethodPost, path, body, resp)
}

func (c *client) do(method, path string, body, resp interface{}) error {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("unable to connect to daemon: %v", err)
	}
	defer res.Body.Close()

	buf, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}
	if res.StatusCode >= http.StatusBadRequest {
		var httpErr httpinterface.HTTPError
		if err := json.Unmarshal(buf, &httpErr); err != nil || httpErr.ErrorStr == "" {
			return fmt.Errorf("%s %s: %s", method, path, res.Status)
		}
		return fmt.Errorf("%s", httpErr.ErrorStr)
	}
	if resp == nil || len(buf) <= 0 {
		return nil
	}
	return json.Unmarshal(buf, resp)
}

type invalidUsageError struct {
	ctx     *cli.Context
	command string
}

func (e *invalidUsageError) Error() string {
	return fmt.Sprintf("invalid usage of command %s", e.command)
}

func fatal(err error) {
	var e *invalidUsageError
	if errors.As(err, &e) {
		_ = cli.ShowCommandHelp(e.ctx, e.command)
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "[tswap] %v\n", err)
	}
	os.Exit(1)
}
