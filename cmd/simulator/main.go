package main

import (
	"context"
	"log"
	"time"

	"kaul/simulator"
)

func main() {
	config := simulator.SimConfig{
		NumUsers:       10,
		SimulationTime: 5 * time.Minute,
		VoteFrequency:  30.0,
		UpvoteBias:     0.7,
		ZipfS:          1.07,
		EngineURL:      "http://localhost:8080",
	}

	sim := simulator.NewSimulator(config)
	ctx, cancel := context.WithTimeout(context.Background(), config.SimulationTime)
	defer cancel()

	log.Printf("Starting simulation with configuration:")
	log.Printf("- Engine URL: %s", config.EngineURL)
	log.Printf("- Number of users: %d", config.NumUsers)
	log.Printf("- Simulation time: %v", config.SimulationTime)
	log.Printf("- Vote frequency: %.2f votes/user/minute", config.VoteFrequency)
	log.Printf("- Upvote bias: %.2f", config.UpvoteBias)
	log.Printf("- Zipf parameter: %.2f", config.ZipfS)

	if err := sim.Run(ctx); err != nil {
		log.Fatalf("Simulation failed: %v", err)
	}

	metrics := sim.GetMetrics()
	log.Printf("\nSimulation completed. Final metrics:")
	log.Printf("- Total users: %d", metrics.TotalUsers)
	log.Printf("- Accepted votes: %d", metrics.TotalVotes)
	log.Printf("- Rejected votes: %d", metrics.RejectedVotes)
	log.Printf("- Average latency: %v", metrics.AverageLatency)
	log.Printf("- Error count: %d", metrics.ErrorCount)
}
