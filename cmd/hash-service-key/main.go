package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Generates the bcrypt hash of a back-office service key for
// ADMIN_SERVICE_KEY_HASH. The plain key goes to the automation client;
// only the hash is configured on the server.
func main() {
	_ = godotenv.Load(".env")

	keyFlag := flag.String("key", "", "Service key to hash (save it; it cannot be recovered from the hash)")
	flag.Parse()

	key := strings.TrimSpace(*keyFlag)
	if key == "" && flag.NArg() >= 1 {
		key = strings.TrimSpace(flag.Arg(0))
	}
	if key == "" {
		fmt.Println("Usage:")
		fmt.Println("  go run cmd/hash-service-key/main.go --key \"your-service-key\"")
		fmt.Println("  go run cmd/hash-service-key/main.go \"your-service-key\"")
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to hash key: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Add to your environment:")
	fmt.Printf("ADMIN_SERVICE_KEY_HASH=%s\n", string(hash))
}
