package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/espiscope/pkg/config"
	"github.com/umputun/espiscope/pkg/llm"
	"github.com/umputun/espiscope/pkg/notify"
)

const espiPage = `<html><body><table class="espi">
<tr><td>10.05.2024</td><td>14:21</td><td><a href="/espi/pl/reports/view/1,1">11 BIT STUDIOS SA</a></td><td>Raport bieżący nr 12/2024</td></tr>
</table></body></html>`

func TestRun_MissingConfig(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := run(ctx, Opts{Config: "non-existent-config.yml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestRun_InvalidConfig(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "invalid.yml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("invalid: yaml: content: ["), 0o600))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := run(ctx, Opts{Config: cfgFile})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestRun_MissingDecoders(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "cfg.yml")
	body := fmt.Sprintf("store:\n  type: json\n  dir: %s\ndecoders:\n  dir: %s\nllm:\n  provider: none\n",
		dir, filepath.Join(dir, "nope"))
	require.NoError(t, os.WriteFile(cfgFile, []byte(body), 0o600))

	err := run(context.Background(), Opts{Config: cfgFile})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load lookup tables")
}

func TestRun_ServerStartStop(t *testing.T) {
	espiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(espiPage))
	}))
	defer espiSrv.Close()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	stateDir := t.TempDir()
	t.Setenv("TEST_LISTEN", addr)
	t.Setenv("STATE_DIR", stateDir)
	t.Setenv("ESPI_URL", espiSrv.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	serverErr := make(chan error, 1)
	go func() { serverErr <- run(ctx, Opts{Config: "testdata/test_config.yml"}) }()

	base := "http://" + addr
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/ping")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	resp, err := http.Post(base+"/api/v1/companies", "application/json", strings.NewReader(`{"query":"11b"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var company map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&company))
	assert.Equal(t, "42", company["id"])
	assert.Equal(t, "11 BIT STUDIOS SA", company["name"])

	// legacy files written
	data, err := os.ReadFile(filepath.Join(stateDir, "espi_history.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Raport bieżący nr 12/2024")
	_, err = os.Stat(filepath.Join(stateDir, "pinned_stocks.json"))
	require.NoError(t, err)

	rss, err := http.Get(base + "/rss/42")
	require.NoError(t, err)
	defer rss.Body.Close()
	assert.Equal(t, http.StatusOK, rss.StatusCode)

	cancel()
	select {
	case err := <-serverErr:
		require.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("run didn't stop")
	}
}

func TestMakeNotifier(t *testing.T) {
	n := makeNotifier(config.NotifyConfig{})
	assert.IsType(t, &notify.Log{}, n)

	n = makeNotifier(config.NotifyConfig{Email: config.EmailConfig{SMTPServer: "smtp.example.com", To: "a@example.com"}})
	assert.Equal(t, "email to a@example.com", n.String())

	n = makeNotifier(config.NotifyConfig{
		Discord: config.DiscordConfig{Token: "t", ChannelID: "123"},
		Email:   config.EmailConfig{SMTPServer: "smtp.example.com", To: "a@example.com"},
	})
	assert.Equal(t, "discord channel 123", n.String())
}

func TestMakeDescriber(t *testing.T) {
	d, err := makeDescriber(context.Background(), config.LLMConfig{Provider: "openai", DefaultEmoji: "🏢"})
	require.NoError(t, err)
	assert.Equal(t, llm.Static("🏢"), d, "no api key gives static emoji")

	d, err = makeDescriber(context.Background(), config.LLMConfig{Provider: "openai", APIKey: "key"})
	require.NoError(t, err)
	assert.IsType(t, &llm.OpenAIDescriber{}, d)

	d, err = makeDescriber(context.Background(), config.LLMConfig{Provider: "none", APIKey: "key", DefaultEmoji: "📈"})
	require.NoError(t, err)
	assert.Equal(t, llm.Static("📈"), d)
}

func TestMakeStore_SQLite(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?mode=rwc&_txlock=immediate"
	st, closeFn, err := makeStore(context.Background(), config.StoreConfig{Type: "sqlite", DSN: dsn, MaxOpenConns: 1})
	require.NoError(t, err)
	defer closeFn()
	list, err := st.Companies(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}
