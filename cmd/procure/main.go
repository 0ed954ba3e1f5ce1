package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
)

// Small operator CLI against the running REST API: fire one procurement
// run and print the recommendation, or list recent runs.

type apiEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func prettyPrint(raw json.RawMessage) {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		fmt.Println(string(raw))
		return
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Println(string(raw))
		return
	}
	fmt.Println(string(b))
}

func sendRequest(baseURL, method, url, token string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	// Runs can take minutes when every retry budget is spent.
	client := &http.Client{Timeout: 6 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func main() {
	baseURL := flag.String("api", "http://localhost:3000/api", "Base URL of the procurement API")
	token := flag.String("token", os.Getenv("PROCURE_TOKEN"), "Bearer token for protected endpoints")
	query := flag.String("query", "", "Product to procure (e.g. 'laptop')")
	category := flag.String("category", "", "Product category hint (electronics, office_supplies, furniture, general)")
	preference := flag.String("preference", "", "Offer preference (cheapest or fastest)")
	platforms := flag.String("platforms", "", "Comma separated platforms to search (e.g. jumia,kilimall)")
	list := flag.Bool("list", false, "List recent runs instead of starting one")
	degraded := flag.Bool("degraded", false, "With -list, only show runs that recorded errors")
	flag.Parse()

	if *list {
		listRuns(*baseURL, *token, *degraded)
		return
	}

	if *query == "" {
		color.Red("Usage: procure -query 'laptop' [-category electronics] [-preference cheapest] [-platforms jumia,kilimall]")
		os.Exit(1)
	}

	runReq := map[string]interface{}{
		"query": *query,
	}
	if *category != "" {
		runReq["category"] = *category
	}
	if *preference != "" {
		runReq["preference"] = *preference
	}
	if *platforms != "" {
		var names []string
		for _, p := range strings.Split(*platforms, ",") {
			if p = strings.TrimSpace(p); p != "" {
				names = append(names, p)
			}
		}
		runReq["platforms"] = names
	}

	color.Cyan("🚀 Starting procurement run for %q", *query)
	resp, body, err := sendRequest(*baseURL, "POST", "/procurement/v1/runs", *token, runReq)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		color.Red("Unexpected response (status %s): %s", resp.Status, string(body))
		os.Exit(1)
	}
	if !envelope.Success {
		color.Red("Status: %s", resp.Status)
		color.Red("Error: %s", envelope.Message)
		os.Exit(1)
	}

	color.Green("Status: %s", resp.Status)
	prettyPrint(envelope.Data)

	// Surface the parts an operator actually acts on.
	var run struct {
		Step           string   `json:"step"`
		Errors         []string `json:"errors"`
		Recommendation struct {
			Summary             string  `json:"final_recommendation"`
			Confidence          float64 `json:"confidence_score"`
			HumanApprovalNeeded bool    `json:"human_approval_required"`
			ApprovalReason      string  `json:"approval_reason"`
		} `json:"final_recommendation"`
	}
	if err := json.Unmarshal(envelope.Data, &run); err == nil {
		fmt.Println()
		if len(run.Errors) > 0 {
			color.Yellow("⚠ Run degraded (%d errors, last step %s):", len(run.Errors), run.Step)
			for _, e := range run.Errors {
				color.Yellow("  - %s", e)
			}
		}
		if run.Recommendation.Summary != "" {
			color.Cyan("Recommendation (confidence %.2f): %s", run.Recommendation.Confidence, run.Recommendation.Summary)
			if run.Recommendation.HumanApprovalNeeded {
				color.Yellow("⚠ Human approval needed: %s", run.Recommendation.ApprovalReason)
			}
		}
	}
}

func listRuns(baseURL, token string, degradedOnly bool) {
	url := "/procurement/v1/runs?limit=20"
	if degradedOnly {
		url += "&degraded_only=true"
	}

	color.Cyan("📋 Recent procurement runs")
	resp, body, err := sendRequest(baseURL, "GET", url, token, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil || !envelope.Success {
		color.Red("Status: %s", resp.Status)
		fmt.Println(string(body))
		os.Exit(1)
	}

	color.Green("Status: %s", resp.Status)
	prettyPrint(envelope.Data)
}
