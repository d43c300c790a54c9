package common

import (
	"fmt"
	"os"
	"strconv"
)

const defaultServerPort = 8991

// GetServerHost returns the host the API server binds to. Defaults to
// loopback; override with SOLDER_SERVER_HOST to expose the server on a LAN.
func GetServerHost() string {
	host := os.Getenv("SOLDER_SERVER_HOST")
	if host == "" {
		return "127.0.0.1"
	}
	return host
}

// GetServerPort returns the API listen port: SOLDER_SERVER_PORT, then the
// conventional PORT, then the default.
func GetServerPort() int {
	port := os.Getenv("SOLDER_SERVER_PORT")
	if port == "" {
		port = os.Getenv("PORT")
	}
	if port == "" {
		return defaultServerPort
	}

	intPort, err := strconv.Atoi(port)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse solder api server port: %s", port))
	}
	return intPort
}

func GetServerHostPort() string {
	return fmt.Sprintf("%s:%d", GetServerHost(), GetServerPort())
}

const defaultAgentURL = "http://localhost:8992/api/agent"

// GetAgentURL returns the endpoint of the external AI agent collaborator
// used for contract interface inference and debugging assistance.
func GetAgentURL() string {
	url := os.Getenv("SOLDER_AGENT_URL")
	if url == "" {
		return defaultAgentURL
	}
	return url
}
