package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/richard-senior/arcmcp/internal/config"
	"github.com/richard-senior/arcmcp/internal/logger"
	"github.com/richard-senior/arcmcp/pkg/server"
	"github.com/richard-senior/arcmcp/pkg/transport"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file (defaults to $ARCMCP_CONFIG)")
	caBundle := flag.String("ca-bundle", "", "Extra PEM roots for the healthcheck client")
	flag.Parse()

	mode := "stdio"
	if flag.NArg() > 0 {
		mode = flag.Arg(0)
	}
	stdio := mode == "stdio"

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load config:", err)
		os.Exit(1)
	}
	if err := config.Update(cfg); err != nil {
		fmt.Fprintln(os.Stderr, "Invalid config:", err)
		os.Exit(1)
	}
	if err := cfg.ConfigureLogger(stdio); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to configure logging:", err)
		os.Exit(1)
	}
	defer logger.Close()

	logger.Info("Starting arcmcp in mode", mode)

	switch mode {
	case "stdio":
		s := server.InitInstance(transport.NewStdioTransport())
		if err := s.Start(); err != nil {
			logger.Error("Server error:", err)
			os.Exit(1)
		}
	case "serve-http":
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		s := server.New(nil, cfg.ToolPrefix)
		if err := s.ListenAndServe(ctx, cfg.HTTP); err != nil {
			logger.Error("HTTP server error:", err)
			os.Exit(1)
		}
	case "healthcheck":
		c, err := transport.NewClient(baseURL(cfg.HTTP.Addr), *caBundle)
		if err != nil {
			logger.Error("Failed to create client:", err)
			os.Exit(1)
		}
		ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ReadTimeout)
		defer cancel()
		if err := c.Health(ctx); err != nil {
			logger.Error("Healthcheck failed:", err)
			os.Exit(1)
		}
		fmt.Println("ok")
	default:
		fmt.Fprintf(os.Stderr, "unknown mode %q (use stdio, serve-http or healthcheck)\n", mode)
		os.Exit(2)
	}

	logger.Info("arcmcp shutting down")
}

// baseURL turns a listen address such as ":8080" into a URL a client can dial
func baseURL(addr string) string {
	if strings.HasPrefix(addr, "http://") || strings.HasPrefix(addr, "https://") {
		return addr
	}
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}
