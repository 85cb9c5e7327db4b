package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cognitiva-api/pkg/config"
)

var testRecord = []byte(`{"aluno":{"nome":"João"}}`)

func TestGemini_GenerateInsight(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "k", r.URL.Query().Get("key"))
		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		assert.Contains(t, req.Contents[0].Parts[0].Text, "João")
		assert.Contains(t, req.Contents[0].Parts[0].Text, "Resuma")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"João evoluiu "},{"text":"em leitura."}]}}]}`))
	}))
	defer srv.Close()

	svc := NewGeminiService("k", "gemini-test").WithBaseURL(srv.URL)
	out, err := svc.GenerateInsight(context.Background(), "Resuma o bimestre", testRecord)
	require.NoError(t, err)
	assert.Equal(t, "João evoluiu em leitura.", out)
}

func TestGemini_ErrorDelProveedor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota"}}`))
	}))
	defer srv.Close()

	_, err := NewGeminiService("k", "m").WithBaseURL(srv.URL).GenerateInsight(context.Background(), "x", testRecord)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota")
}

func TestGemini_SinAPIKey(t *testing.T) {
	_, err := NewGeminiService("", "m").GenerateInsight(context.Background(), "x", testRecord)
	assert.Error(t, err)
}

func TestAnthropic_GenerateInsight(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "k", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		var req anthropicRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, systemPrompt, req.System)
		_, _ = w.Write([]byte("{\"content\":[{\"type\":\"text\",\"text\":\"```\\nBom progresso.\\n```\"}]}"))
	}))
	defer srv.Close()

	out, err := NewAnthropicService("k", "claude").WithURL(srv.URL).GenerateInsight(context.Background(), "x", testRecord)
	require.NoError(t, err)
	assert.Equal(t, "Bom progresso.", out)
}

func TestAnthropic_TimeoutDelContexto(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := NewAnthropicService("k", "claude").WithURL(srv.URL).GenerateInsight(ctx, "x", testRecord)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "timeout"))
}

func TestNewFromConfig(t *testing.T) {
	svc, err := NewFromConfig(config.AIConfig{Provider: "anthropic"})
	require.NoError(t, err)
	assert.Equal(t, "anthropic", svc.Name())

	_, err = NewFromConfig(config.AIConfig{Provider: "openai"})
	assert.Error(t, err)
}
