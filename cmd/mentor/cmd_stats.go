package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
)

// cmdStats shows performance metrics and skill level
func cmdStats() error {
	if !isRunning() {
		return fmt.Errorf("daemon not running (run 'mentor start' first)")
	}

	resp, err := http.Get(daemonAddr + "/v1/metrics")
	if err != nil {
		return fmt.Errorf("get metrics: %w", err)
	}
	defer resp.Body.Close()

	var metrics struct {
		GamesPlayed        int     `json:"games_played"`
		WinRatePct         float64 `json:"win_rate_pct"`
		AverageAccuracyPct float64 `json:"average_accuracy_pct"`
		CurrentStreak      int     `json:"current_streak"`
		BestStreak         int     `json:"best_streak"`
		SkillLevel         string  `json:"skill_level"`
		ImprovementTrend   string  `json:"improvement_trend"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&metrics); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}

	if metrics.GamesPlayed == 0 {
		fmt.Println("No games recorded yet. Play a game!")
		return nil
	}

	fmt.Println("Performance")
	fmt.Println("===========")
	fmt.Printf("Games Played:   %d\n", metrics.GamesPlayed)
	fmt.Printf("Win Rate:       %.1f%% %s\n", metrics.WinRatePct, renderProgressBar(metrics.WinRatePct/100, 20))
	fmt.Printf("Accuracy:       %.1f%%\n", metrics.AverageAccuracyPct)
	fmt.Printf("Current Streak: %+d\n", metrics.CurrentStreak)
	fmt.Printf("Best Streak:    %d\n", metrics.BestStreak)
	fmt.Printf("Skill Level:    %s\n", metrics.SkillLevel)
	fmt.Printf("Trend:          %s\n", metrics.ImprovementTrend)

	return nil
}

// cmdDifficulty shows the live difficulty or the adjustment log
func cmdDifficulty(args []string) error {
	if !isRunning() {
		return fmt.Errorf("daemon not running (run 'mentor start' first)")
	}

	if len(args) > 0 && args[0] == "log" {
		return cmdDifficultyLog()
	}

	resp, err := http.Get(daemonAddr + "/v1/difficulty")
	if err != nil {
		return fmt.Errorf("get difficulty: %w", err)
	}
	defer resp.Body.Close()

	var difficulty struct {
		Current           float64 `json:"current"`
		Predicted         float64 `json:"predicted"`
		AdaptationEnabled bool    `json:"adaptation_enabled"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&difficulty); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}

	fmt.Printf("Current:    %.1f %s\n", difficulty.Current, renderProgressBar(difficulty.Current/10, 20))
	fmt.Printf("Predicted:  %.1f\n", difficulty.Predicted)
	fmt.Printf("Adaptation: %v\n", difficulty.AdaptationEnabled)

	return nil
}

func cmdDifficultyLog() error {
	resp, err := http.Get(daemonAddr + "/v1/difficulty/adjustments")
	if err != nil {
		return fmt.Errorf("get adjustments: %w", err)
	}
	defer resp.Body.Close()

	var log struct {
		Adjustments []struct {
			Timestamp     string  `json:"timestamp"`
			OldDifficulty float64 `json:"old_difficulty"`
			NewDifficulty float64 `json:"new_difficulty"`
			TriggerEvent  string  `json:"trigger_event"`
			Reason        string  `json:"reason"`
		} `json:"adjustments"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&log); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}

	if len(log.Adjustments) == 0 {
		fmt.Println("No difficulty adjustments yet.")
		return nil
	}

	fmt.Println("Difficulty Adjustments")
	fmt.Println("======================")
	for _, adj := range log.Adjustments {
		fmt.Printf("%s  %.1f → %.1f  %-24s %s\n",
			adj.Timestamp, adj.OldDifficulty, adj.NewDifficulty, adj.TriggerEvent, adj.Reason)
	}

	return nil
}

// cmdFeedback shows recent coaching messages
func cmdFeedback() error {
	if !isRunning() {
		return fmt.Errorf("daemon not running (run 'mentor start' first)")
	}

	resp, err := http.Get(daemonAddr + "/v1/feedback")
	if err != nil {
		return fmt.Errorf("get feedback: %w", err)
	}
	defer resp.Body.Close()

	var feedback struct {
		Feedback []struct {
			Message   string `json:"message"`
			Type      string `json:"type"`
			Priority  string `json:"priority"`
			GamePhase string `json:"game_phase"`
		} `json:"feedback"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&feedback); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}

	if len(feedback.Feedback) == 0 {
		fmt.Println("No recent coaching messages.")
		return nil
	}

	fmt.Println("Recent Coaching")
	fmt.Println("===============")
	for _, fb := range feedback.Feedback {
		fmt.Printf("[%s/%s] %s\n", fb.GamePhase, fb.Priority, fb.Message)
	}

	return nil
}

// cmdLeaderboard shows the ranked board for one game mode
func cmdLeaderboard(args []string) error {
	if !isRunning() {
		return fmt.Errorf("daemon not running (run 'mentor start' first)")
	}

	mode := "pvp"
	if len(args) > 0 {
		mode = args[0]
	}

	resp, err := http.Get(daemonAddr + "/v1/leaderboard/" + mode)
	if err != nil {
		return fmt.Errorf("get leaderboard: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unknown leaderboard mode %q (valid: pvp, campaign)", mode)
	}

	var board struct {
		Mode    string `json:"mode"`
		Entries []struct {
			Rank        int    `json:"rank"`
			PlayerID    string `json:"player_id"`
			DisplayName string `json:"display_name"`
			Score       int    `json:"score"`
			IsRequester bool   `json:"is_requester"`
		} `json:"entries"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&board); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}

	if len(board.Entries) == 0 {
		fmt.Println("Leaderboard is empty.")
		return nil
	}

	fmt.Printf("Leaderboard (%s)\n", board.Mode)
	fmt.Println("================")
	for _, entry := range board.Entries {
		name := entry.DisplayName
		if name == "" {
			name = entry.PlayerID
		}
		marker := " "
		if entry.IsRequester {
			marker = "*"
		}
		fmt.Printf("%s %3d. %-24s %d\n", marker, entry.Rank, name, entry.Score)
	}

	return nil
}

// cmdExport writes the engine state blob to a file or stdout
func cmdExport(args []string) error {
	if !isRunning() {
		return fmt.Errorf("daemon not running (run 'mentor start' first)")
	}

	resp, err := http.Get(daemonAddr + "/v1/state")
	if err != nil {
		return fmt.Errorf("get state: %w", err)
	}
	defer resp.Body.Close()

	blob, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read state: %w", err)
	}

	if len(args) == 0 {
		fmt.Println(string(blob))
		return nil
	}

	if err := os.WriteFile(args[0], blob, 0644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	fmt.Printf("State exported to %s\n", args[0])
	return nil
}

// cmdImport restores engine state from an exported file
func cmdImport(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: mentor import <file>")
	}
	if !isRunning() {
		return fmt.Errorf("daemon not running (run 'mentor start' first)")
	}

	blob, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read state file: %w", err)
	}

	req, err := http.NewRequest(http.MethodPut, daemonAddr+"/v1/state", bytes.NewReader(blob))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("import state: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("import rejected: %s", string(body))
	}

	fmt.Println("State imported ✓")
	return nil
}
