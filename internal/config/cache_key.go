package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// StudentSessionKey returns the cache key holding a student's active login JTI.
func (r *CacheKeyStruct) StudentSessionKey(studentID int) string {
	return fmt.Sprintf("login:%d", studentID)
}

// ExamViewKey returns the cache key for an exam's redacted student payload.
func (r *CacheKeyStruct) ExamViewKey(examID string) string {
	return fmt.Sprintf("exam:%s:view", examID)
}

// ExamSubmissionChannel returns the Redis PubSub channel carrying live
// submission events for an exam.
func (r *CacheKeyStruct) ExamSubmissionChannel(examID string) string {
	return fmt.Sprintf("exam:%s:submissions", examID)
}

var CacheKey = NewCacheKeyStruct()
