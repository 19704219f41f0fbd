package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const serverPort = 8080

// apiToken is the session token obtained once at startup and sent with every
// request.
var apiToken string

type envelope struct {
	Data json.RawMessage `json:"data"`
}

type userData struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Token    string `json:"token"`
}

type contactData struct {
	Id        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// Usage example on the command line:
// > go run main.go
func main() {
	login()
	fmt.Println()
	fmt.Println("  Elements      POST       PUT       GET    DELETE ")
	fmt.Println("---------------------------------------------------")
	sizes := []int{1000, 5000, 10000, 50000, 100000}
	jsonBody := []byte(`{
		"first_name": "Marcus",
		"last_name": "Antonius",
		"email": "marcus@example.com",
		"phone": "+39 999 777 555"
	}`)
	for _, loops := range sizes {
		firstID := sendPostRequest(bytes.NewReader(jsonBody))
		fmt.Printf("%10d", loops)
		{
			// POST requests
			postDuration = 0
			for i := 0; i < loops; i++ {
				_ = sendPostRequest(bytes.NewReader(jsonBody))
			}
			fmt.Printf("%10d", postDuration/int64(loops*1000))
		}
		{
			// PUT requests
			f := func(id int64) int64 {
				return sendPutGetDeleteRequest(id, http.MethodPut, bytes.NewReader(jsonBody))
			}
			callInLoop(firstID, loops, f)
		}
		{
			// GET requests
			f := func(id int64) int64 {
				return sendPutGetDeleteRequest(id, http.MethodGet, nil)
			}
			callInLoop(firstID, loops, f)
		}
		{
			// DELETE requests
			f := func(id int64) int64 {
				return sendPutGetDeleteRequest(id, http.MethodDelete, nil)
			}
			callInLoop(firstID, loops, f)
		}
		sendPutGetDeleteRequest(firstID, http.MethodDelete, nil)
		fmt.Println()
	}
}

// login registers a throwaway benchmark user and stores its session token.
func login() {
	username := "benchmark-" + uuid.NewString()[:8]
	registerBody := fmt.Sprintf(`{"username": %q, "password": "benchmark", "name": "Benchmark"}`, username)
	requestURL := fmt.Sprintf("http://localhost:%d/api/users", serverPort)
	sendRequest(http.MethodPost, requestURL, bytes.NewReader([]byte(registerBody)))

	loginBody := fmt.Sprintf(`{"username": %q, "password": "benchmark"}`, username)
	requestURL = fmt.Sprintf("http://localhost:%d/api/users/login", serverPort)
	resBody, _ := sendRequest(http.MethodPost, requestURL, bytes.NewReader([]byte(loginBody)))

	var env envelope
	if err := json.Unmarshal(resBody, &env); err != nil {
		fmt.Println("could not unmarshal JSON", err)
		panic(err)
	}
	var user userData
	if err := json.Unmarshal(env.Data, &user); err != nil {
		fmt.Println("could not unmarshal JSON", err)
		panic(err)
	}
	apiToken = user.Token
}

func callInLoop(firstID int64, loops int, f func(id int64) int64) {
	ids := createRandomSliceWithIDs(firstID+1, loops)
	var duration int64
	for _, id := range ids {
		d := f(id)
		duration += d
	}
	fmt.Printf("%10d", duration/int64(loops*1000))
}

func createRandomSliceWithIDs(firstID int64, loops int) []int64 {
	ids := make([]int64, 0, loops)
	for i := 0; i < loops; i++ {
		ids = append(ids, firstID+int64(i))
	}
	rand.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
	return ids
}

// postDuration accumulates the time spent in sendPostRequest calls.
var postDuration int64

func sendPostRequest(bodyReader io.Reader) int64 {
	requestURL := fmt.Sprintf("http://localhost:%d/api/contacts", serverPort)
	resBody, duration := sendRequest(http.MethodPost, requestURL, bodyReader)
	postDuration += duration
	var env envelope
	if err := json.Unmarshal(resBody, &env); err != nil {
		fmt.Println("could not unmarshal JSON", err)
		panic(err)
	}
	var contact contactData
	if err := json.Unmarshal(env.Data, &contact); err != nil {
		fmt.Println("could not unmarshal JSON", err)
		panic(err)
	}
	return contact.Id
}

func sendPutGetDeleteRequest(id int64, method string, bodyReader io.Reader) int64 {
	requestURL := fmt.Sprintf("http://localhost:%d/api/contacts/%d", serverPort, id)
	_, duration := sendRequest(method, requestURL, bodyReader)
	return duration
}

func sendRequest(method string, requestURL string, bodyReader io.Reader) ([]byte, int64) {
	req, err := http.NewRequest(method, requestURL, bodyReader)
	if err != nil {
		fmt.Println("could not create request", err)
		panic(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if apiToken != "" {
		req.Header.Set("X-API-TOKEN", apiToken)
	}
	before := time.Now().UnixNano()
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Println("error making http request", err)
		panic(err)
	}
	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		fmt.Println("could not read response body", err)
		panic(err)
	}
	after := time.Now().UnixNano()
	return resBody, after - before
}
