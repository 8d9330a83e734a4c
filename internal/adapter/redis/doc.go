// Package redis implements the domain repositories on Redis.
//
// Key layout (all keys share the "moodpulse:" prefix):
//
//	moodpulse:users            set of seeded usernames
//	moodpulse:user:{username}  hash: password, last_post_date (YYYY-MM-DD), streak
//	moodpulse:session:{key}    string: current username or "anonymous"
//	moodpulse:mood:latest      string: latest posted mood
//
// The client carries a failsafe-go circuit breaker hook and a metrics hook.
package redis
