// Command hashkey prints the argon2id hash of an operator or bridge key,
// ready to paste into OPERATOR_KEY_HASH or BRIDGE_KEY_HASH.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"retailenroll/infrastructure/argon"
)

func main() {
	key, err := readKey(os.Args[1:], os.Getenv("ENROLL_KEY"), os.Stdin)
	if err != nil {
		log.Fatalf("read key: %v", err)
	}
	hash, err := argon.CreateHash(key, argon.DefaultParams)
	if err != nil {
		log.Fatalf("hash key: %v", err)
	}
	fmt.Println(hash)
}

// readKey takes the key from the first argument, then ENROLL_KEY, then the
// first line of stdin.
func readKey(args []string, envKey string, stdin io.Reader) (string, error) {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return strings.TrimSpace(args[0]), nil
	}
	if strings.TrimSpace(envKey) != "" {
		return strings.TrimSpace(envKey), nil
	}
	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	if key := strings.TrimSpace(line); key != "" {
		return key, nil
	}
	return "", errors.New("no key given; pass it as an argument, ENROLL_KEY, or on stdin")
}
