package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/praetorian-inc/uaparser/pkg/logging"
	"github.com/praetorian-inc/uaparser/pkg/serve"
	"github.com/praetorian-inc/uaparser/pkg/types"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "serve", RunE: runServe}
	cmd.Flags().StringVar(&serveMetricsAddr, "metrics-addr", "", "Listen address for the /metrics endpoint")
	return cmd
}

func TestServeCmd_ParseAndClose(t *testing.T) {
	resetRootFlags(t)

	input := strings.Join([]string{
		`{"type":"parse","payload":{"id":"a","user_agent":"` + galaxyNexusUA + `"}}`,
		`{"type":"close"}`,
	}, "\n") + "\n"

	var stdout bytes.Buffer
	cmd := newServeCmd()
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())

	scanner := bufio.NewScanner(&stdout)
	var responses []serve.Response
	for scanner.Scan() {
		var resp serve.Response
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &resp))
		responses = append(responses, resp)
	}
	require.Len(t, responses, 2)
	assert.Equal(t, "ready", responses[0].Type)
	assert.Equal(t, "parse", responses[1].Type)
	require.True(t, responses[1].Success)

	var result serve.ParseResult
	require.NoError(t, json.Unmarshal(responses[1].Data, &result))
	assert.Equal(t, "a", result.ID)
	assert.Equal(t, "Chrome Mobile", result.UserAgent.Family)
}

func TestServeCmd_EOFEndsCleanly(t *testing.T) {
	resetRootFlags(t)

	cmd := newServeCmd()
	cmd.SetIn(strings.NewReader(""))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
}

func TestStartMetricsServer(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		srv, m, err := startMetricsServer("", logging.Nop())
		require.NoError(t, err)
		assert.Nil(t, srv)
		assert.Nil(t, m)
	})

	t.Run("serves metrics", func(t *testing.T) {
		var logs bytes.Buffer
		logger := logging.New(logging.Config{Level: logging.LevelInfo, Format: logging.FormatJSON, Output: &logs})

		srv, m, err := startMetricsServer("127.0.0.1:0", logger)
		require.NoError(t, err)
		require.NotNil(t, srv)
		defer srv.Close()

		m.ObserveParse(types.Client{
			UserAgent: types.DefaultUserAgent(),
			OS:        types.DefaultOS(),
			Device:    types.DefaultDevice(),
		}, 0)

		var entry struct {
			Addr string `json:"addr"`
		}
		require.NoError(t, json.Unmarshal(bytes.TrimSpace(logs.Bytes()), &entry))
		require.NotEmpty(t, entry.Addr)

		resp, err := http.Get("http://" + entry.Addr + "/metrics")
		require.NoError(t, err)
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(body), "uaparser_parses_total")
	})

	t.Run("bad address", func(t *testing.T) {
		_, _, err := startMetricsServer("not-an-address", logging.Nop())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "metrics listener")
	})
}
