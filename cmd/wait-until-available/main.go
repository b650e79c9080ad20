package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"
)

// Usage example on the command line:
// > go run main.go -url=http://localhost:8080/readiness -timeout=2m
func main() {
	url := flag.String("url", "http://localhost:8080/readiness", "the endpoint to poll")
	interval := flag.Duration("interval", 5*time.Second, "the pause between two attempts")
	timeout := flag.Duration("timeout", 0, "give up after this long; 0 waits forever")
	flag.Parse()

	client := &http.Client{Timeout: *interval}
	start := time.Now()
	for {
		res, err := client.Get(*url)
		if err == nil {
			res.Body.Close()
			if res.StatusCode == http.StatusOK {
				fmt.Println(res.Status)
				return
			}
			fmt.Println(res.Status)
		} else {
			fmt.Println(err)
		}
		if *timeout > 0 && time.Since(start) >= *timeout {
			fmt.Printf("Service not available after %s", time.Since(start).Round(time.Second))
			fmt.Println()
			os.Exit(1)
		}
		fmt.Printf("Waiting %s", time.Since(start).Round(time.Second))
		fmt.Println()
		time.Sleep(*interval)
	}
}
