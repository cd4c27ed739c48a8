// Command maiaserver runs the Maia evaluation REST API server.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/yourusername/maiaengine/internal/evalstore"
	"github.com/yourusername/maiaengine/pkg/api"
	"github.com/yourusername/maiaengine/pkg/engine"
)

const version = "0.1.0"

func main() {
	// Command line flags
	host := flag.String("host", "localhost", "Host to bind to (use 0.0.0.0 for all interfaces)")
	port := flag.Int("port", 8080, "Port to listen on")
	modelFile := flag.String("model", "data/maia2.onnx", "Path to the ONNX model")
	ortLib := flag.String("ort-lib", "", "Path to the ONNX Runtime shared library (default: ONNXRUNTIME_SHARED_LIBRARY_PATH)")
	cacheSize := flag.Uint("cache-size", engine.DefaultCacheSize, "In-memory evaluation cache entries")
	storeDir := flag.String("store-dir", "", "Directory for the persistent result store (empty disables)")
	readTimeout := flag.Duration("read-timeout", 30*time.Second, "HTTP read timeout")
	writeTimeout := flag.Duration("write-timeout", 30*time.Second, "HTTP write timeout")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Parse()

	if *showVersion {
		fmt.Printf("Maia API Server v%s\n", version)
		os.Exit(0)
	}

	log.Printf("Maia API Server v%s", version)
	log.Printf("Loading model from %s...", *modelFile)

	eng, err := engine.NewEngine(engine.EngineOptions{
		ModelFile:      *modelFile,
		ORTLibraryPath: *ortLib,
		CacheSize:      uint32(*cacheSize),
	})
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}
	defer eng.Close()

	log.Printf("Model loaded successfully")

	var store *evalstore.Store
	if *storeDir != "" {
		store, err = evalstore.Open(*storeDir)
		if err != nil {
			log.Fatalf("Failed to open result store: %v", err)
		}
		defer store.Close()
		log.Printf("Result store open at %s", *storeDir)
	}

	config := api.ServerConfig{
		Host:         *host,
		Port:         *port,
		ReadTimeout:  *readTimeout,
		WriteTimeout: *writeTimeout,
		IdleTimeout:  60 * time.Second,
	}

	server := api.NewServer(eng, store, config, version)

	if err := server.ListenAndServeWithGracefulShutdown(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
