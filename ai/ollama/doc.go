// Package ollama implements ai.AIProvider against the native Ollama API
// using langchaingo's ollama client. Hosts are given without the /v1 suffix.
package ollama
