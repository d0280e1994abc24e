package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// Triggers a pipeline run on a running server. Point it at a remote
// deployment with SERVER_URL.
func main() {
	adminSecret := strings.TrimSpace(os.Getenv("ADMIN_SECRET"))
	if adminSecret == "" {
		fmt.Println("Missing ADMIN_SECRET environment variable")
		os.Exit(1)
	}

	serverURL := os.Getenv("SERVER_URL")
	if serverURL == "" {
		serverURL = "http://localhost:8081"
	}

	req, err := http.NewRequest(http.MethodPost, serverURL+"/api/v1/pipeline/run", nil)
	if err != nil {
		fmt.Printf("Error creating request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("X-Admin-Secret", adminSecret)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	fmt.Printf("Response Status: %s\n", resp.Status)
	fmt.Println(string(body))

	if resp.StatusCode != http.StatusAccepted {
		os.Exit(1)
	}
}
