package simulator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"time"
)

// SimConfig controls the voting load generator.
type SimConfig struct {
	NumUsers       int
	SimulationTime time.Duration
	VoteFrequency  float64 // votes per user per minute
	UpvoteBias     float64 // probability a vote is an upvote
	ZipfS          float64 // subject popularity skew
	EngineURL      string
}

// SimulationStats tracks request outcomes during a run.
type SimulationStats struct {
	mu               sync.RWMutex
	StartTime        time.Time
	TotalRequests    int64
	SuccessRequests  int64
	FailedRequests   int64
	AverageLatency   time.Duration
	TotalVotes       int
	RejectedVotes    int
	RequestLatencies []time.Duration
}

// SimulatedUser is one synthetic voter. Votes are tracked per direction
// so the generator mostly avoids duplicate-vote rejections.
type SimulatedUser struct {
	ID         string
	VotedUp    map[int]bool
	VotedDown  map[int]bool
	LastActive time.Time
}

type Simulator struct {
	config   SimConfig
	stats    *SimulationStats
	users    []*SimulatedUser
	subjects []int
	zipf     *rand.Zipf
	client   *http.Client
	mu       sync.RWMutex
}

func NewSimulator(config SimConfig) *Simulator {
	return &Simulator{
		config: config,
		stats: &SimulationStats{
			StartTime:        time.Now(),
			RequestLatencies: make([]time.Duration, 0),
		},
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Run initializes the user pool, discovers the subjects, and drives vote
// traffic until the context is cancelled.
func (s *Simulator) Run(ctx context.Context) error {
	log.Printf("Starting vote simulation...")

	if err := s.initialize(ctx); err != nil {
		return fmt.Errorf("initialization failed: %v", err)
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := s.simulateVotes(ctx); err != nil {
			log.Printf("Vote simulation error: %v", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.collectMetrics(ctx)
	}()

	wg.Wait()
	return nil
}

func (s *Simulator) initialize(ctx context.Context) error {
	log.Printf("Phase 1: Creating %d users...", s.config.NumUsers)
	s.users = make([]*SimulatedUser, 0, s.config.NumUsers)
	for i := 0; i < s.config.NumUsers; i++ {
		user := &SimulatedUser{
			ID:        fmt.Sprintf("sim_user_%d", i),
			VotedUp:   make(map[int]bool),
			VotedDown: make(map[int]bool),
		}
		if err := s.loginUser(user); err != nil {
			log.Printf("Failed to log in user %s: %v", user.ID, err)
			continue
		}
		s.users = append(s.users, user)
	}
	log.Printf("Successfully created %d users", len(s.users))

	log.Printf("Phase 2: Discovering subjects...")
	if err := s.loadSubjects(); err != nil {
		return fmt.Errorf("failed to load subjects: %v", err)
	}
	log.Printf("Found %d subjects", len(s.subjects))

	s.zipf = rand.NewZipf(rand.New(rand.NewSource(time.Now().UnixNano())),
		s.config.ZipfS, 1, uint64(len(s.subjects)-1))

	return nil
}

// loginUser exercises the login endpoint. Accounts are created lazily by
// the engine on first vote, so this only checks the endpoint answers.
func (s *Simulator) loginUser(user *SimulatedUser) error {
	data := map[string]interface{}{
		"username": user.ID,
		"password": "testpass123",
	}

	resp, err := s.makeRequest("POST", "/login", data)
	if err != nil {
		return fmt.Errorf("login request failed: %v", err)
	}

	var result struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
	}
	if err := json.Unmarshal(resp, &result); err != nil {
		return fmt.Errorf("failed to parse login response: %v", err)
	}
	if !result.Success || result.Token == "" {
		return fmt.Errorf("login rejected for %s", user.ID)
	}

	user.LastActive = time.Now()
	return nil
}

func (s *Simulator) loadSubjects() error {
	resp, err := s.makeRequest("GET", "/subjects", nil)
	if err != nil {
		return err
	}

	var result struct {
		Subjects []struct {
			ID int `json:"id"`
		} `json:"subjects"`
	}
	if err := json.Unmarshal(resp, &result); err != nil {
		return fmt.Errorf("failed to parse subjects response: %v", err)
	}
	if len(result.Subjects) == 0 {
		return fmt.Errorf("engine reported no subjects")
	}

	s.subjects = make([]int, 0, len(result.Subjects))
	for _, subject := range result.Subjects {
		s.subjects = append(s.subjects, subject.ID)
	}
	return nil
}

func (s *Simulator) simulateVotes(ctx context.Context) error {
	// VoteFrequency is per user per minute; spread the pool's total
	// rate over a single ticker.
	totalPerMinute := s.config.VoteFrequency * float64(len(s.users))
	if totalPerMinute <= 0 {
		return fmt.Errorf("vote frequency produces no traffic")
	}
	interval := time.Duration(float64(time.Minute) / totalPerMinute)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.castRandomVote()
		}
	}
}

func (s *Simulator) castRandomVote() {
	s.mu.Lock()
	user := s.users[rand.Intn(len(s.users))]
	subjectID := s.subjects[int(s.zipf.Uint64())%len(s.subjects)]

	voteType := "up"
	voted := user.VotedUp
	if rand.Float64() >= s.config.UpvoteBias {
		voteType = "down"
		voted = user.VotedDown
	}

	// Already voted this direction here; pick the other direction or skip.
	if voted[subjectID] {
		if voteType == "up" && !user.VotedDown[subjectID] {
			voteType = "down"
			voted = user.VotedDown
		} else if voteType == "down" && !user.VotedUp[subjectID] {
			voteType = "up"
			voted = user.VotedUp
		} else {
			s.mu.Unlock()
			return
		}
	}
	voted[subjectID] = true
	user.LastActive = time.Now()
	s.mu.Unlock()

	data := map[string]interface{}{
		"id":       subjectID,
		"voteType": voteType,
		"userId":   user.ID,
	}

	resp, err := s.makeRequest("POST", "/vote", data)
	if err != nil {
		s.stats.mu.Lock()
		s.stats.RejectedVotes++
		s.stats.mu.Unlock()
		return
	}

	var result struct {
		Success bool `json:"success"`
	}
	s.stats.mu.Lock()
	if json.Unmarshal(resp, &result) == nil && result.Success {
		s.stats.TotalVotes++
	} else {
		s.stats.RejectedVotes++
	}
	s.stats.mu.Unlock()
}

// Helper method to make HTTP requests
func (s *Simulator) makeRequest(method, endpoint string, data interface{}) ([]byte, error) {
	var body []byte
	var err error

	if data != nil {
		body, err = json.Marshal(data)
		if err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequest(method, s.config.EngineURL+endpoint, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := s.client.Do(req)
	s.recordRequestMetrics(start, err)

	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("request failed with status: %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

func (s *Simulator) recordRequestMetrics(start time.Time, err error) {
	s.stats.mu.Lock()
	defer s.stats.mu.Unlock()

	latency := time.Since(start)
	s.stats.TotalRequests++
	s.stats.RequestLatencies = append(s.stats.RequestLatencies, latency)

	if err != nil {
		s.stats.FailedRequests++
	} else {
		s.stats.SuccessRequests++
	}

	totalLatency := s.stats.AverageLatency * time.Duration(s.stats.TotalRequests-1)
	s.stats.AverageLatency = (totalLatency + latency) / time.Duration(s.stats.TotalRequests)
}

func (s *Simulator) collectMetrics(ctx context.Context) {
	log.Printf("Starting metrics collection...")
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.stats.mu.RLock()
			elapsed := time.Since(s.stats.StartTime)
			requestRate := float64(s.stats.TotalRequests) / elapsed.Seconds()
			successRate := 0.0
			if s.stats.TotalRequests > 0 {
				successRate = float64(s.stats.SuccessRequests) / float64(s.stats.TotalRequests) * 100
			}

			log.Printf("\nSimulation Metrics (%.1f seconds elapsed):", elapsed.Seconds())
			log.Printf("- Request Rate: %.2f req/sec", requestRate)
			log.Printf("- Success Rate: %.1f%%", successRate)
			log.Printf("- Average Latency: %v", s.stats.AverageLatency)
			log.Printf("- Accepted Votes: %d", s.stats.TotalVotes)
			log.Printf("- Rejected Votes: %d", s.stats.RejectedVotes)
			log.Printf("- Failed Requests: %d", s.stats.FailedRequests)
			s.stats.mu.RUnlock()
		}
	}
}

// SimulationMetrics holds the final metrics of a run
type SimulationMetrics struct {
	TotalUsers        int
	TotalVotes        int
	RejectedVotes     int
	AverageLatency    time.Duration
	ErrorCount        int
	RequestsPerSecond float64
}

// GetMetrics returns the current simulation metrics
func (s *Simulator) GetMetrics() SimulationMetrics {
	s.stats.mu.RLock()
	defer s.stats.mu.RUnlock()

	elapsed := time.Since(s.stats.StartTime)
	requestRate := float64(s.stats.TotalRequests) / elapsed.Seconds()

	return SimulationMetrics{
		TotalUsers:        len(s.users),
		TotalVotes:        s.stats.TotalVotes,
		RejectedVotes:     s.stats.RejectedVotes,
		AverageLatency:    s.stats.AverageLatency,
		ErrorCount:        int(s.stats.FailedRequests),
		RequestsPerSecond: requestRate,
	}
}
