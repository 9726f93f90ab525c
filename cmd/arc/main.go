package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/richard-senior/arcmcp/internal/config"
	"github.com/richard-senior/arcmcp/internal/logger"
	"github.com/richard-senior/arcmcp/internal/processor"
)

func main() {
	debug := flag.Bool("debug", false, "Enable debug logging")
	configPath := flag.String("config", "", "Path to a YAML config file (defaults to $ARCMCP_CONFIG)")
	inputFile := flag.String("input", "", "Input file path (if not provided, arguments or stdin will be used)")
	outputFile := flag.String("output", "", "Output file path (if not provided, stdout will be used)")
	flag.Parse()

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load config:", err)
		os.Exit(1)
	}
	if err := config.Update(cfg); err != nil {
		fmt.Fprintln(os.Stderr, "Invalid config:", err)
		os.Exit(1)
	}
	// stdout carries the result
	if err := cfg.ConfigureLogger(true); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to configure logging:", err)
		os.Exit(1)
	}
	defer logger.Close()
	if *debug {
		logger.SetLevel(logger.DEBUG)
		logger.Debug("Debug logging enabled")
	}

	var input []byte
	if *inputFile != "" {
		input, err = os.ReadFile(*inputFile)
		if err != nil {
			logger.Fatal("Failed to read input file", err)
		}
	} else if args := flag.Args(); len(args) > 0 {
		input, err = json.Marshal(processor.MCPRequest{
			Query:     strings.Join(args, " "),
			RequestID: fmt.Sprintf("cli-%d", os.Getpid()),
		})
		if err != nil {
			logger.Fatal("Failed to create request from command line arguments", err)
		}
	} else {
		input, err = io.ReadAll(os.Stdin)
		if err != nil {
			logger.Fatal("Failed to read from stdin", err)
		}
	}

	result, err := processor.ProcessRequest(input)
	if err != nil {
		logger.Error("Failed to process request", err)
		os.Exit(1)
	}

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, result, 0644); err != nil {
			logger.Fatal("Failed to write to output file", err)
		}
		logger.Info("Wrote result to", *outputFile)
		return
	}
	os.Stdout.Write(result)
	if len(result) > 0 && result[0] == '{' {
		fmt.Println()
	}
}
