//go:build unix

package action

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"strconv"
	"testing"
	"time"

	"github.com/dimspell/svctemplate/internal/config"
	"github.com/dimspell/svctemplate/internal/probe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const childProcessEnvVar = "SVCTEMPLATE_RUN_CHILD"

// TestRunCommand_ChildProcess is the service process started by
// TestRunCommand_RepeatedInterrupt. It does nothing in a normal test run.
func TestRunCommand_ChildProcess(t *testing.T) {
	if os.Getenv(childProcessEnvVar) != "1" {
		t.Skip("only runs as a child process")
	}

	if err := RunCommand("test").Run(context.Background(), []string{"run"}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func helperFreePort(t *testing.T) int {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}

func TestRunCommand_RepeatedInterrupt(t *testing.T) {
	if os.Getenv(childProcessEnvVar) == "1" {
		t.Skip("already in the child process")
	}

	ctx, cancel := context.WithTimeout(t.Context(), 30*time.Second)
	defer cancel()

	port := strconv.Itoa(helperFreePort(t))
	child := exec.CommandContext(ctx, os.Args[0], "-test.run=^TestRunCommand_ChildProcess$")
	child.Env = append(os.Environ(),
		childProcessEnvVar+"=1",
		config.PortEnvVar+"="+port,
		config.PathEnvVar+"=",
	)
	var output bytes.Buffer
	child.Stdout = &output
	child.Stderr = &output
	require.NoError(t, child.Start())

	exited := make(chan error, 1)
	go func() { exited <- child.Wait() }()

	baseURL := "http://127.0.0.1:" + port
	require.NoError(t, probe.WaitReady(ctx, probe.NewHTTPHealthChecker(baseURL+"/health"), 50*time.Millisecond, 10*time.Second))

	// A POST whose body is held open keeps the handler in flight.
	body, writer := io.Pipe()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/api/v1/hello", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	type response struct {
		status int
		body   string
		err    error
	}
	responses := make(chan response, 1)
	go func() {
		client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
		res, err := client.Do(req)
		if err != nil {
			responses <- response{err: err}
			return
		}
		defer res.Body.Close()
		data, err := io.ReadAll(res.Body)
		responses <- response{status: res.StatusCode, body: string(data), err: err}
	}()

	_, err = io.WriteString(writer, `{"name":`)
	require.NoError(t, err)

	require.NoError(t, child.Process.Signal(os.Interrupt))
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, child.Process.Signal(os.Interrupt))

	select {
	case err := <-exited:
		t.Fatalf("service exited while a request was in flight: %v\n%s", err, output.String())
	case <-time.After(300 * time.Millisecond):
	}

	_, err = io.WriteString(writer, `"Matt"}`)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	res := <-responses
	require.NoError(t, res.err)
	assert.Equal(t, http.StatusOK, res.status)
	assert.Contains(t, res.body, "Hello, Matt! (from World)")

	select {
	case err := <-exited:
		assert.NoError(t, err, output.String())
	case <-ctx.Done():
		t.Fatal("service did not exit after draining")
	}
}
