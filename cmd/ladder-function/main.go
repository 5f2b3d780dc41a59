// Command ladder-function runs the GenerateLadder Cloud Function locally.
package main

import (
	"log/slog"
	"os"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"

	_ "svw.info/wordladder"
)

func main() {
	port := "8080"
	if envPort := os.Getenv("PORT"); envPort != "" {
		port = envPort
	}
	if err := funcframework.Start(port); err != nil {
		slog.Error("funcframework.Start", "err", err)
		os.Exit(1)
	}
}
