// Command vapid-keygen prints a fresh VAPID key pair in the env format the
// server expects. The server refuses to start without keys; run this once
// and persist the output.
package main

import (
	"fmt"
	"log"

	webpush "github.com/SherClockHolmes/webpush-go"
)

func main() {
	privateKey, publicKey, err := webpush.GenerateVAPIDKeys()
	if err != nil {
		log.Fatal("Failed to generate VAPID keys:", err)
	}

	fmt.Printf("VAPID_PRIVATE_KEY=%s\n", privateKey)
	fmt.Printf("VAPID_PUBLIC_KEY=%s\n", publicKey)
}
