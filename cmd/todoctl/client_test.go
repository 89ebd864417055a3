package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"voice-todo/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/action", func(w http.ResponseWriter, r *http.Request) {
		var req model.ActionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"bad json"}`, http.StatusBadRequest)
			return
		}
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"error":"unauthorized"}`)
			return
		}
		json.NewEncoder(w).Encode(model.Action{Action: model.ActionComplete, Text: req.Text + "|" + req.Emoji})
	})
	mux.HandleFunc("/api/transcribe", func(w http.ResponseWriter, r *http.Request) {
		f, hdr, err := r.FormFile("file")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			io.WriteString(w, `{"error":"no audio file provided"}`)
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		json.NewEncoder(w).Encode(model.TranscriptResponse{Text: hdr.Filename + ":" + string(data)})
	})
	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(model.LoginResponse{Token: "tok", User: model.User{ID: 1, Name: "Ada"}})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_DetermineAction(t *testing.T) {
	srv := stubServer(t)

	c := newHTTPClient(srv.URL+"/", "tok")
	action, err := c.determineAction(context.Background(), model.ActionRequest{Text: "bought milk", Emoji: "🥛"})
	require.NoError(t, err)
	assert.Equal(t, model.ActionComplete, action.Action)
	assert.Equal(t, "bought milk|🥛", action.Text)
}

func TestClient_ServerErrorMessage(t *testing.T) {
	srv := stubServer(t)

	c := newHTTPClient(srv.URL, "")
	_, err := c.determineAction(context.Background(), model.ActionRequest{Text: "x"})
	require.Error(t, err)
	assert.Equal(t, "server error (401): unauthorized", err.Error())
}

func TestClient_Transcribe(t *testing.T) {
	srv := stubServer(t)

	c := newHTTPClient(srv.URL, "")
	text, err := c.transcribe(context.Background(), "memo.webm", strings.NewReader("abc"))
	require.NoError(t, err)
	assert.Equal(t, "memo.webm:abc", text)
}

func TestClient_TranscribeQuotedName(t *testing.T) {
	srv := stubServer(t)

	c := newHTTPClient(srv.URL, "")
	text, err := c.transcribe(context.Background(), `my "memo".webm`, strings.NewReader("abc"))
	require.NoError(t, err)
	assert.Equal(t, `my "memo".webm:abc`, text)
}

func TestClient_Login(t *testing.T) {
	srv := stubServer(t)

	resp, err := newHTTPClient(srv.URL, "").login(context.Background(), "ada", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok", resp.Token)
	assert.Equal(t, "Ada", resp.User.Name)
}

func TestReadTodos(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "todos.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":"1","text":"buy groceries","completed":true}]`), 0o644))

	todos, err := readTodos(path)
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.True(t, todos[0].Completed)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`null`), 0o644))
	todos, err = readTodos(empty)
	require.NoError(t, err)
	assert.NotNil(t, todos)

	_, err = readTodos(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestActionCommand(t *testing.T) {
	srv := stubServer(t)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"--server", srv.URL, "--token", "tok", "action", "bought groceries", "--emoji", "🛒"})
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetOut(nil) })

	require.NoError(t, rootCmd.Execute())
	var got model.Action
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "bought groceries|🛒", got.Text)
}
