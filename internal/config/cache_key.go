package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// ExamPaperKey returns the cache key for a student-facing exam paper.
func (r *CacheKeyStruct) ExamPaperKey(examID string) string {
	return fmt.Sprintf("exam:%s:paper", examID)
}

// ExamAnalyticsKey returns the cache key for an exam's analytics snapshot.
func (r *CacheKeyStruct) ExamAnalyticsKey(examID string) string {
	return fmt.Sprintf("exam:%s:analytics", examID)
}

var CacheKey = NewCacheKeyStruct()
