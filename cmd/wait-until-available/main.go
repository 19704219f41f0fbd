package main

import (
	"fmt"
	"net/http"
	"time"
)

// The service answers 401 on an unauthenticated contacts request as soon as
// it is up, so that status counts as available.
func main() {
	totalWaitTime := 0
	for {
		res, err := http.Get("http://localhost:8080/api/contacts")
		if err == nil {
			if res.StatusCode == http.StatusUnauthorized {
				fmt.Println(res)
				break
			} else {
				fmt.Println(res)
			}
		} else {
			fmt.Println(err)
		}
		totalWaitTime += 5
		fmt.Printf("Waiting %d seconds", totalWaitTime)
		fmt.Println()
		time.Sleep(5 * time.Second)
	}
}
