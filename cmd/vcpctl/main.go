// Command vcpctl is a reference Volume Control Profile renderer.
//
// It hosts the Volume Control Service and the Volume Offset Control
// Service on an in-process GATT database and attaches a loopback
// client session to it, so every command runs the full control-point
// round trip including change-counter validation and notifications.
//
// Usage:
//
//	vcpctl [flags]
//
// Flags:
//
//	-profile string     Device profile YAML path
//	-log-level string   Log level: debug, info, warn, error (default "info")
//	-event-log string   Append protocol events to this CBOR log file
//	-server-only        Serve without attaching the loopback client
//
// Examples:
//
//	# Start with the built-in default profile
//	vcpctl
//
//	# Start with a device profile and protocol event logging
//	vcpctl -profile speaker.yaml -event-log session.vlog
//
//	# Inspect the recorded events afterwards
//	vcp-log view session.vlog
//
// Interactive Commands:
//
//	state               - Show server state and the client mirror
//	up / down           - Relative volume up / down
//	uup / udown         - Unmute, then relative volume up / down
//	set <0..255>        - Set absolute volume
//	mute / unmute       - Mute / unmute
//	offset <-255..255>  - Set the volume offset
//	raw <vcs|vocs> <hex...> - Write raw control-point bytes
//	watch on|off        - Toggle notification display
//	quit                - Exit
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/vcp-protocol/vcp-go/cmd/vcpctl/interactive"
	"github.com/vcp-protocol/vcp-go/pkg/gatt"
	vcplog "github.com/vcp-protocol/vcp-go/pkg/log"
	"github.com/vcp-protocol/vcp-go/pkg/vcp"
)

// Config holds the renderer configuration.
type Config struct {
	ProfilePath  string
	LogLevel     string
	EventLogPath string
	ServerOnly   bool
}

var config Config

func init() {
	flag.StringVar(&config.ProfilePath, "profile", "", "Device profile YAML path")
	flag.StringVar(&config.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.StringVar(&config.EventLogPath, "event-log", "", "Append protocol events to this CBOR log file")
	flag.BoolVar(&config.ServerOnly, "server-only", false, "Serve without attaching the loopback client")
}

func main() {
	flag.Parse()

	// Setup logging
	setupLogging(config.LogLevel)

	log.Println("VCP Reference Renderer")
	log.Println("======================")

	svcCfg := vcp.DefaultServiceConfig()
	if config.ProfilePath != "" {
		profile, err := LoadProfile(config.ProfilePath)
		if err != nil {
			log.Fatalf("Failed to load profile: %v", err)
		}
		svcCfg, err = profile.ServiceConfig()
		if err != nil {
			log.Fatalf("Invalid profile: %v", err)
		}
		log.Printf("Loaded profile: %s", config.ProfilePath)
	}
	log.Printf("Audio location: %s", svcCfg.AudioLocation)
	log.Printf("Output description: %s", svcCfg.OutputDescription)

	db := gatt.NewDatabase()
	reg := vcp.NewRegistry()
	binding := reg.AddDatabaseWithConfig(db, svcCfg)

	var eventLogger *vcplog.FileLogger
	if config.EventLogPath != "" {
		var err error
		eventLogger, err = vcplog.NewFileLogger(config.EventLogPath)
		if err != nil {
			log.Fatalf("Failed to open event log: %v", err)
		}
		reg.SetEventLogger(eventLogger)
		log.Printf("Protocol events: %s", config.EventLogPath)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The loopback client drives the local server from the same
	// process. Server-only mode skips it and leaves the database to
	// whatever transport the caller wires up.
	var session *vcp.Session
	var conn *gatt.LoopbackConn
	var client *gatt.LoopbackClient
	if !config.ServerOnly {
		conn, client = gatt.NewLoopback(db)
		var err error
		session, err = reg.NewSession(db, db)
		if err != nil {
			log.Fatalf("Failed to create session: %v", err)
		}
	}

	// The interactive controller installs the client event hooks, so
	// create it before attaching the session.
	ic, err := interactive.New(session, binding)
	if err != nil {
		log.Fatalf("Failed to create interactive controller: %v", err)
	}
	// Redirect log output through readline to avoid interfering with input
	log.SetOutput(ic.Stdout())
	reg.SetLogger(slog.New(slog.NewTextHandler(ic.Stdout(), &slog.HandlerOptions{
		Level: slogLevel(config.LogLevel),
	})))

	if session != nil {
		if err := reg.Attach(session, client); err != nil {
			log.Fatalf("Failed to attach client session: %v", err)
		}
		log.Printf("Loopback client attached (conn %.8s)", conn.ID())
	} else {
		log.Println("Running server-only")
	}

	go ic.Run(ctx, cancel)

	// Wait for shutdown signal or context cancellation
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("Received signal: %v", sig)
	case <-ctx.Done():
		// Context was cancelled (e.g., by the quit command)
	}

	log.Println("Shutting down...")

	if session != nil {
		reg.Detach(session)
		conn.Close(nil)
	}
	if eventLogger != nil {
		if err := eventLogger.Close(); err != nil {
			log.Printf("Error closing event log: %v", err)
		}
	}

	log.Println("Goodbye!")
}

func setupLogging(level string) {
	log.SetFlags(log.Ltime | log.Lmicroseconds)

	switch level {
	case "debug":
		log.SetFlags(log.Ltime | log.Lmicroseconds | log.Lshortfile)
	case "warn", "error":
		log.SetFlags(log.Ltime)
	}
}

func slogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
