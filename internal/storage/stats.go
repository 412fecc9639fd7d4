package storage

import (
	"context"
	"fmt"
	"math"
)

// VolumeFilter selects the bucketing for volume stats.
type VolumeFilter string

const (
	FilterDay  VolumeFilter = "day"  // daily buckets, trailing 14 days
	FilterWeek VolumeFilter = "week" // ISO-week buckets, trailing 12 weeks
	FilterYear VolumeFilter = "year" // monthly buckets, trailing 12 months
)

// VolumeDataPoint is one labelled bucket of summed session volume.
type VolumeDataPoint struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// VolumeStats holds bucketed volume plus summary figures. The summary
// fields cover the entire history, not just the windowed buckets.
type VolumeStats struct {
	DataPoints    []VolumeDataPoint `json:"data_points"`
	TotalSessions int               `json:"total_sessions"`
	AvgVolume     int               `json:"avg_volume"`
	BestSession   int               `json:"best_session"`
}

// volumeBucketQuery maps a filter to its bucketing query.
func volumeBucketQuery(filter VolumeFilter) (string, error) {
	switch filter {
	case FilterDay:
		return `SELECT to_char(date_trunc('day', date), 'DD/MM') AS label, SUM(total_volume)
			FROM workout_sessions
			WHERE date >= now() - interval '14 days'
			GROUP BY date_trunc('day', date)
			ORDER BY date_trunc('day', date)`, nil
	case FilterWeek:
		return `SELECT 'S' || to_char(date_trunc('week', date), 'IW') AS label, SUM(total_volume)
			FROM workout_sessions
			WHERE date >= now() - interval '84 days'
			GROUP BY date_trunc('week', date)
			ORDER BY date_trunc('week', date)`, nil
	case FilterYear:
		return `SELECT to_char(date_trunc('month', date), 'Mon') AS label, SUM(total_volume)
			FROM workout_sessions
			WHERE date >= now() - interval '12 months'
			GROUP BY date_trunc('month', date)
			ORDER BY date_trunc('month', date)`, nil
	default:
		return "", fmt.Errorf("unknown volume filter %q", filter)
	}
}

// GetVolumeStats aggregates session volume into labelled buckets for
// the given filter window.
func (db *DB) GetVolumeStats(ctx context.Context, filter VolumeFilter) (*VolumeStats, error) {
	query, err := volumeBucketQuery(filter)
	if err != nil {
		return nil, err
	}

	rows, err := db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying volume buckets: %w", err)
	}
	defer rows.Close()

	stats := &VolumeStats{}
	for rows.Next() {
		var p VolumeDataPoint
		if err := rows.Scan(&p.Label, &p.Value); err != nil {
			return nil, fmt.Errorf("scanning volume bucket: %w", err)
		}
		stats.DataPoints = append(stats.DataPoints, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var avg float64
	err = db.Pool.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(AVG(total_volume), 0), COALESCE(MAX(total_volume), 0)
		 FROM workout_sessions`).
		Scan(&stats.TotalSessions, &avg, &stats.BestSession)
	if err != nil {
		return nil, fmt.Errorf("querying volume summary: %w", err)
	}
	stats.AvgVolume = int(math.Round(avg))

	return stats, nil
}
