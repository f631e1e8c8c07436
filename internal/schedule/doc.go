// Package schedule wires the recurring jobs: the fleet cycle on a fixed
// interval and each user's daily briefing at their configured local
// time.
package schedule
