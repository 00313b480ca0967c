// Command access-codes generates access codes for alpha users. For each code
// it prints the plaintext to hand to the student and an INSERT statement for
// the users table with the bcrypt hash.
package main

import (
	"crypto/rand"
	"flag"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Unambiguous characters only, codes get read out loud over the phone.
const codeAlphabet = "abcdefghjkmnpqrstuvwxyz23456789"

const codeLength = 12

func main() {
	count := flag.Int("n", 1, "number of access codes to generate")
	flag.Parse()

	for i := 0; i < *count; i++ {
		code, err := generateCode()
		if err != nil {
			log.Fatalf("Failed to generate access code: %v", err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Failed to hash access code: %v", err)
		}

		now := time.Now().UTC().Format(time.RFC3339)
		fmt.Printf("Access code: %s\n", code)
		fmt.Printf("INSERT INTO users (id, hashed_access_code, created_at, updated_at) "+
			"VALUES ('%s', '%s', '%s', '%s');\n\n",
			uuid.New(), string(hash), now, now)
	}
}

// generateCode builds a random code from the restricted alphabet.
func generateCode() (string, error) {
	code := make([]byte, codeLength)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = codeAlphabet[n.Int64()]
	}
	return string(code), nil
}
