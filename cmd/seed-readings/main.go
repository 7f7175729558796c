// seed-readings posts sample sensor readings against a running
// iot-platform instance, for local development and load smoke tests.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
)

func main() {
	baseURL := flag.String("base", "http://localhost:8080", "iot-platform base URL")
	deviceCode := flag.String("device", "T-001", "device code to post readings for")
	count := flag.Int("count", 100, "number of readings to post")
	interval := flag.Duration("interval", 200*time.Millisecond, "delay between readings")
	center := flag.Float64("center", 25.0, "random walk center value")
	flag.Parse()

	client := resty.New().
		SetBaseURL(*baseURL).
		SetTimeout(10 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Content-Type", "application/json")

	value := *center
	for i := 0; i < *count; i++ {
		value += (rand.Float64() - 0.5) * 2.0

		resp, err := client.R().
			SetBody(map[string]any{
				"device_code":  *deviceCode,
				"sensor_value": value,
			}).
			Post("/readings")
		if err != nil {
			fmt.Fprintf(os.Stderr, "post failed: %v\n", err)
			os.Exit(1)
		}
		if resp.StatusCode() != 200 {
			fmt.Fprintf(os.Stderr, "reading rejected (%d): %s\n", resp.StatusCode(), resp.String())
			os.Exit(1)
		}
		fmt.Printf("posted %s value=%.2f\n", *deviceCode, value)

		time.Sleep(*interval)
	}
}
