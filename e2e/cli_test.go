package e2e_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/werewolf-go/internal/api"
	"github.com/mcoot/werewolf-go/internal/factory"
	"github.com/mcoot/werewolf-go/internal/services/match"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
	tokenFile  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(projectRoot, "bin", "wwgame-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/wwgame")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	// Create temp token file
	tokenFile := filepath.Join(t.TempDir(), "token")

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		tokenFile:  tokenFile,
	}
}

// sibling shares the binary but keeps its own token file
func (r *cliRunner) sibling(t *testing.T) *cliRunner {
	return &cliRunner{
		binaryPath: r.binaryPath,
		serverURL:  r.serverURL,
		tokenFile:  filepath.Join(t.TempDir(), "token"),
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token-file", r.tokenFile,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	server   *http.Server
	addr     string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())
	serverURL := "http://" + addr

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	matchCfg := match.DefaultConfig()
	matchCfg.BaseURL = serverURL

	app, err := factory.New(factory.Config{
		MatchConfig: matchCfg,
		Logger:      logger,
	})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:          logger,
		AuthService:     app.AuthService,
		MatchController: app.MatchController,
		BotService:      app.BotService,
		HubManager:      app.HubManager,
		Broadcaster:     app.Broadcaster,
		Metrics:         app.Metrics,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	// Wait for server to be ready
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		server: server,
		addr:   serverURL,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
			_ = app.Close()
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Response types for JSON parsing
type playerResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type authResponse struct {
	Player       playerResponse `json:"player"`
	SessionToken string         `json:"session_token"`
}

type matchResponse struct {
	Code     string `json:"code"`
	HostID   string `json:"host_id"`
	Status   string `json:"status"`
	Phase    string `json:"phase"`
	Round    int    `json:"round"`
	ShareURL string `json:"share_url"`
	Settings struct {
		TotalPlayers int            `json:"total_players"`
		Roles        map[string]int `json:"roles"`
	} `json:"settings"`
	Players []struct {
		PlayerID string `json:"player_id"`
		Name     string `json:"name"`
		IsAlive  bool   `json:"is_alive"`
		IsHost   bool   `json:"is_host"`
		IsReady  bool   `json:"is_ready"`
		Role     string `json:"role"`
	} `json:"players"`
	Outcome struct {
		EliminatedPlayer string `json:"eliminated_player"`
		LastNightResult  string `json:"last_night_result"`
	} `json:"outcome"`
	You *struct {
		PlayerID string `json:"player_id"`
		Role     string `json:"role"`
		Team     string `json:"team"`
	} `json:"you"`
}

type healthResponse struct {
	Status string `json:"status"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func decode[T any](t *testing.T, output string) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal([]byte(output), &v), "output: %s", output)
	return v
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	resp := decode[healthResponse](t, output)
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_PlayerCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Create guest
	output, err := cli.run("player", "guest", "--name", "Alice")
	require.NoError(t, err, "output: %s", output)

	authResp := decode[authResponse](t, output)
	assert.Equal(t, "Alice", authResp.Player.DisplayName)
	assert.NotEmpty(t, authResp.SessionToken)

	// Get me (token should be saved in token file)
	output, err = cli.run("player", "me")
	require.NoError(t, err, "output: %s", output)

	player := decode[playerResponse](t, output)
	assert.Equal(t, "Alice", player.DisplayName)
	assert.Equal(t, authResp.Player.ID, player.ID)

	// Rename
	output, err = cli.run("player", "rename", "Alicia")
	require.NoError(t, err, "output: %s", output)
	assert.Contains(t, output, "Alicia")

	// Logout removes the saved token
	output, err = cli.run("player", "logout")
	require.NoError(t, err, "output: %s", output)
	_, statErr := os.Stat(cli.tokenFile)
	assert.True(t, os.IsNotExist(statErr))

	output, err = cli.run("player", "me")
	require.Error(t, err)
	assert.Contains(t, output, "UNAUTHORIZED")
}

func TestCLI_MatchFlow(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	host := newCLIRunner(t, ts.addr)
	runners := []*cliRunner{host}
	for i := 0; i < 4; i++ {
		runners = append(runners, host.sibling(t))
	}

	ids := make(map[*cliRunner]string)
	for i, name := range []string{"Alice", "Bob", "Carol", "Dave", "Erin"} {
		output, err := runners[i].run("player", "guest", "--name", name)
		require.NoError(t, err, "output: %s", output)
		ids[runners[i]] = decode[authResponse](t, output).Player.ID
	}

	// Host creates a five player match with a custom mix
	output, err := host.run("match", "create", "--players", "5", "--roles", "werewolf=1,seer=1,villager=3")
	require.NoError(t, err, "output: %s", output)
	created := decode[matchResponse](t, output)
	assert.Equal(t, "waiting", created.Status)
	assert.Equal(t, "lobby", created.Phase)
	assert.Equal(t, 5, created.Settings.TotalPlayers)
	assert.Equal(t, map[string]int{"werewolf": 1, "seer": 1, "villager": 3}, created.Settings.Roles)
	assert.Equal(t, ts.addr+"/join/"+created.Code, created.ShareURL)
	code := created.Code

	// Starting early fails
	output, err = host.run("match", "start", code)
	require.Error(t, err)
	assert.Contains(t, output, "ROSTER_INCOMPLETE")

	for _, r := range runners[1:] {
		output, err = r.run("match", "join", code)
		require.NoError(t, err, "output: %s", output)
	}
	for _, r := range runners {
		output, err = r.run("match", "ready", code)
		require.NoError(t, err, "output: %s", output)
	}

	// Only the host may start
	output, err = runners[1].run("match", "start", code)
	require.Error(t, err)
	assert.Contains(t, output, "NOT_HOST")

	output, err = host.run("match", "start", code)
	require.NoError(t, err, "output: %s", output)
	started := decode[matchResponse](t, output)
	assert.Equal(t, "playing", started.Status)
	assert.Equal(t, "night", started.Phase)
	assert.Equal(t, 1, started.Round)

	// Find the werewolf from each player's own view
	var wolf *cliRunner
	for _, r := range runners {
		output, err = r.run("match", "get", code)
		require.NoError(t, err, "output: %s", output)
		view := decode[matchResponse](t, output)
		require.NotNil(t, view.You)
		assert.Equal(t, ids[r], view.You.PlayerID)
		if view.You.Role == "werewolf" {
			wolf = r
		}
	}
	require.NotNil(t, wolf)

	var victim *cliRunner
	for _, r := range runners {
		if r != wolf {
			victim = r
			break
		}
	}

	output, err = wolf.run("play", "act", code, ids[victim])
	require.NoError(t, err, "output: %s", output)

	// Stale advance does nothing, matching advance moves on
	output, err = host.run("play", "advance", code, "--expect", "voting")
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, "night", decode[matchResponse](t, output).Phase)

	output, err = host.run("play", "advance", code, "--expect", "night")
	require.NoError(t, err, "output: %s", output)
	day := decode[matchResponse](t, output)
	assert.Equal(t, "day", day.Phase)
	assert.Equal(t, ids[victim], day.Outcome.EliminatedPlayer)
	for _, p := range day.Players {
		assert.Equal(t, p.PlayerID != ids[victim], p.IsAlive, p.Name)
	}

	// Chat
	output, err = host.run("chat", "say", code, "who", "was", "it")
	require.NoError(t, err, "output: %s", output)
	assert.Contains(t, output, "who was it")

	output, err = runners[1].run("chat", "messages", code)
	require.NoError(t, err, "output: %s", output)
	assert.Contains(t, output, "who was it")

	// Roles catalog
	output, err = host.run("roles", "preset", "6")
	require.NoError(t, err, "output: %s", output)
	assert.Contains(t, output, `"total_players":6`)

	// Delete
	output, err = host.run("match", "delete", code)
	require.NoError(t, err, "output: %s", output)
	assert.Contains(t, decode[messageResponse](t, output).Message, "Deleted match")

	output, err = host.run("match", "get", code)
	require.Error(t, err)
	assert.Contains(t, output, "NOT_FOUND")
}
