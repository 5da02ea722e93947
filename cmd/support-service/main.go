package main

import (
	"log"

	"github.com/graalonline/support-service/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
