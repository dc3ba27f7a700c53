package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"

	_ "github.com/joho/godotenv/autoload"

	"github.com/presbrey/ircserv/irc"
	"github.com/presbrey/ircserv/irc/admind"
	"github.com/presbrey/ircserv/irc/config"
)

func main() {
	configPath := flag.String("config", "", "optional configuration file or URL (yaml/toml/json)")
	debug := flag.Bool("debug", false, "enable verbose I/O tracing")
	flag.Parse()

	args := flag.Args()
	if len(args) != 2 {
		fmt.Printf("Usage: %s <port> <password>\n", os.Args[0])
		os.Exit(1)
	}
	if !irc.AllDigits(args[0]) {
		fmt.Println("Port must be a number")
		fmt.Printf("Usage: %s <port> <password>\n", os.Args[0])
		os.Exit(1)
	}
	port, err := strconv.Atoi(args[0])
	if err != nil || port > 65535 {
		fmt.Println("Port must be a number")
		fmt.Printf("Usage: %s <port> <password>\n", os.Args[0])
		os.Exit(1)
	}

	cfg := config.FromEnv()
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}

	// Positional arguments always win over file and environment.
	cfg.Server.Port = port
	cfg.Server.Password = args[1]

	if err := cfg.Validate(); err != nil {
		log.Fatalf("%v", err)
	}

	server := irc.NewServer(cfg)
	server.SetDebug(*debug)
	if err := server.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	if cfg.Admin.Enabled {
		admin := admind.New(server, cfg)
		go func() {
			if err := admin.Start(); err != nil && err != http.ErrServerClosed {
				log.Printf("Admin server error: %v", err)
			}
		}()
		log.Printf("Admin server listening on %s", cfg.AdminListenAddress())
	}

	<-server.Done()
}
