package main

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"time"

	vegeta "github.com/tsenart/vegeta/v12/lib"
)

const (
	targetHost = "http://localhost:8080" // локальный стенд оркестратора
	rps        = 5
	duration   = 1 * time.Minute
)

var (
	projects = []string{"pay", "billing", "ops"}
	httpc    = &http.Client{Timeout: 10 * time.Second}
)

func getURL(url string) (int, error) {
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	resp, err := httpc.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}

// issueEventBody собирает тело вебхука в формате конверта трекера.
func issueEventBody(key, project, status, from, summary string, labels []string) []byte {
	payload := map[string]interface{}{
		"webhookEvent": "jira:issue_updated",
		"issue": map[string]interface{}{
			"id":  fmt.Sprintf("%d", rand.Intn(1000000)),
			"key": key,
			"fields": map[string]interface{}{
				"summary":     summary,
				"description": "Load generated issue body",
				"status":      map[string]string{"name": status},
				"labels":      labels,
				"project":     map[string]string{"key": project},
			},
		},
	}
	if from != "" {
		payload["changelog"] = map[string]interface{}{
			"items": []map[string]string{
				{"field": "status", "fromString": from, "toString": status},
			},
		}
	}

	b, _ := json.Marshal(payload)
	return b
}

func reviewCallbackBody(key, outcome string) []byte {
	b, _ := json.Marshal(map[string]string{
		"issue_key": key,
		"outcome":   outcome,
		"feedback":  "load generated verdict",
	})
	return b
}

// Health check
func waitForService() error {
	log.Printf("Waiting for %s/health ...", targetHost)

	for i := 0; i < 10; i++ {
		status, err := getURL(targetHost + "/health")
		if err == nil && status == http.StatusOK {
			return nil
		}
		time.Sleep(500 * time.Millisecond)
	}
	return fmt.Errorf("service %s is not healthy", targetHost)
}

// Targeter
func makeTargeter() vegeta.Targeter {
	jsonHeader := map[string][]string{"Content-Type": {"application/json"}}

	return func(t *vegeta.Target) error {
		r := rand.Float64()
		project := projects[rand.Intn(len(projects))]
		key := fmt.Sprintf("%s-%d", project, rand.Intn(5000))

		// 55% обновление без маршрутизируемого статуса (путь ignore)
		if r < 0.55 {
			t.Method = http.MethodPost
			t.URL = targetHost + "/webhooks/jira/issue-updated"
			t.Body = issueEventBody(key, project, "In Progress", "To Do", "Routine update", []string{"backend"})
			t.Header = jsonHeader
			return nil
		}

		// 25% переход в Selected for Dev с меткой ai (путь dispatch)
		if r < 0.80 {
			t.Method = http.MethodPost
			t.URL = targetHost + "/webhooks/jira/issue-updated"
			t.Body = issueEventBody(key, project, "Selected for Dev", "To Do",
				fmt.Sprintf("[%s] Load issue", project), []string{"ai"})
			t.Header = jsonHeader
			return nil
		}

		// 10% создание задачи
		if r < 0.90 {
			body := issueEventBody(key, project, "To Do", "", "Fresh issue", []string{"ai"})
			t.Method = http.MethodPost
			t.URL = targetHost + "/webhooks/jira/issue-created"
			t.Body = body
			t.Header = jsonHeader
			return nil
		}

		// 7% переход в To approve с меткой ai (путь review)
		if r < 0.97 {
			t.Method = http.MethodPost
			t.URL = targetHost + "/webhooks/jira/issue-updated"
			t.Body = issueEventBody(key, project, "To approve", "In Progress",
				fmt.Sprintf("[%s] Load issue", project), []string{"ai"})
			t.Header = jsonHeader
			return nil
		}

		// 3% вердикт агента ревью
		outcome := "rejected"
		if rand.Intn(2) == 0 {
			outcome = "accepted"
		}
		t.Method = http.MethodPost
		t.URL = targetHost + "/agents/review-completed"
		t.Body = reviewCallbackBody(key, outcome)
		t.Header = jsonHeader
		return nil
	}
}

// Attack
func runAttack() {
	rate := vegeta.Rate{Freq: rps, Per: time.Second}
	attacker := vegeta.NewAttacker()
	targeter := makeTargeter()

	var metrics vegeta.Metrics

	log.Printf("Starting attack: %s for %s", targetHost, duration)
	for res := range attacker.Attack(targeter, rate, duration, "load-test") {
		metrics.Add(res)
	}
	metrics.Close()

	fmt.Println("=== Results ===")
	fmt.Printf("Requests: %d\n", metrics.Requests)
	fmt.Printf("Success rate: %.4f%%\n", metrics.Success*100)
	fmt.Printf("Latency mean: %s\n", metrics.Latencies.Mean)
	fmt.Printf("Latency P95: %s\n", metrics.Latencies.P95)
	fmt.Printf("Latency P99: %s\n", metrics.Latencies.P99)
}

func main() {
	rand.Seed(time.Now().UnixNano())

	if err := waitForService(); err != nil {
		log.Fatalf("Health check failed: %v", err)
	}

	runAttack()
}
