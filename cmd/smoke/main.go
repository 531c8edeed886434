package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

func main() {
	baseURL := os.Getenv("GRAPHQA_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	// Wait for server to start
	time.Sleep(2 * time.Second)

	fmt.Println("Starting smoke test...")

	fmt.Println("1. Ingesting documents...")
	payload := map[string]interface{}{
		"texts": []string{
			"Elon Musk is the CEO of Tesla.",
			"Tom Hanks and Tim Allen acted in the movie Toy Story.",
		},
	}
	if _, ok := sendRequest(baseURL, http.MethodPost, "/documents", payload); !ok {
		fmt.Println("FAILED: Ingest documents")
		os.Exit(1)
	}
	fmt.Println("PASSED: Ingest documents")

	fmt.Println("2. Describing schema...")
	if _, ok := sendRequest(baseURL, http.MethodGet, "/schema", nil); !ok {
		fmt.Println("FAILED: Schema")
		os.Exit(1)
	}
	fmt.Println("PASSED: Schema")

	fmt.Println("3. Asking a question...")
	body, ok := sendRequest(baseURL, http.MethodPost, "/query", map[string]string{"question": "Who acted in Toy Story?"})
	if !ok {
		fmt.Println("FAILED: Query")
		os.Exit(1)
	}
	var answer struct {
		Answer string `json:"answer"`
		State  string `json:"state"`
	}
	if err := json.Unmarshal(body, &answer); err != nil || answer.State != "done" || answer.Answer == "" {
		fmt.Printf("FAILED: Query returned %s\n", string(body))
		os.Exit(1)
	}
	fmt.Println("PASSED: Query")
}

func sendRequest(baseURL, method, endpoint string, payload interface{}) ([]byte, bool) {
	var body io.Reader
	if payload != nil {
		jsonBytes, _ := json.Marshal(payload)
		body = bytes.NewBuffer(jsonBytes)
	}

	req, err := http.NewRequest(method, baseURL+endpoint, body)
	if err != nil {
		fmt.Printf("Error creating request: %v\n", err)
		return nil, false
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 5 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		return nil, false
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	fmt.Printf("Response (%d): %s\n", resp.StatusCode, string(respBody))

	return respBody, resp.StatusCode == http.StatusOK
}
