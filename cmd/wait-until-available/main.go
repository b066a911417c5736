package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"gitlab.com/dirk.krummacker/mycontacts/internal/client"
)

// Usage example on the command line:
// > go run main.go -url=http://localhost:10000 -interval=5s -max-wait=2m
func main() {
	urlPtr := flag.String("url", "http://localhost:10000", "base URL of the service")
	intervalPtr := flag.Duration("interval", 5*time.Second, "time between attempts")
	maxWaitPtr := flag.Duration("max-wait", 0, "give up after this long, 0 waits forever")
	flag.Parse()

	c := client.New(*urlPtr, client.NewSession(""), client.WithHTTPClient(&http.Client{Timeout: *intervalPtr}))
	start := time.Now()
	for {
		ctx, cancel := context.WithTimeout(context.Background(), *intervalPtr)
		err := c.Ping(ctx)
		cancel()
		if err == nil {
			fmt.Println("service is available at", *urlPtr)
			return
		}
		fmt.Println(err)

		totalWaitTime := time.Since(start).Round(time.Second)
		if *maxWaitPtr > 0 && totalWaitTime >= *maxWaitPtr {
			fmt.Printf("Gave up after %s\n", totalWaitTime)
			os.Exit(1)
		}
		fmt.Printf("Waiting %s\n", totalWaitTime)
		time.Sleep(*intervalPtr)
	}
}
