package domain

import (
	"fmt"
	"time"
)

// RankingConfig holds the calibrated constants of federated ranking.
// The defaults reproduce the established ranking order; they are not derived.
type RankingConfig struct {
	ArticleKeywordScore       float64       `json:"article_keyword_score" mapstructure:"article_keyword_score"`
	KnowledgeItemKeywordScore float64       `json:"knowledge_item_keyword_score" mapstructure:"knowledge_item_keyword_score"`
	NewsPinnedScore           float64       `json:"news_pinned_score" mapstructure:"news_pinned_score"`
	NewsScore                 float64       `json:"news_score" mapstructure:"news_score"`
	EmployeeProfileScore      float64       `json:"employee_profile_score" mapstructure:"employee_profile_score"`
	UserAccountScore          float64       `json:"user_account_score" mapstructure:"user_account_score"`
	ConnectorScore            float64       `json:"connector_score" mapstructure:"connector_score"`
	SemanticThreshold         float64       `json:"semantic_threshold" mapstructure:"semantic_threshold"`
	SemanticBoost             float64       `json:"semantic_boost" mapstructure:"semantic_boost"`
	KeywordLimit              int           `json:"keyword_limit" mapstructure:"keyword_limit"`
	MaxKeywordLimit           int           `json:"max_keyword_limit" mapstructure:"max_keyword_limit"`
	SemanticCandidateLimit    int           `json:"semantic_candidate_limit" mapstructure:"semantic_candidate_limit"`
	StrategyTimeout           time.Duration `json:"strategy_timeout" mapstructure:"strategy_timeout"`
	SearchTimeout             time.Duration `json:"search_timeout" mapstructure:"search_timeout"`
	DefaultLimit              int           `json:"default_limit" mapstructure:"default_limit"`
	MaxLimit                  int           `json:"max_limit" mapstructure:"max_limit"`
	ConnectorSearchLive       bool          `json:"connector_search_live" mapstructure:"connector_search_live"`
}

// DefaultRankingConfig returns the production defaults
func DefaultRankingConfig() RankingConfig {
	return RankingConfig{
		ArticleKeywordScore:       0.8,
		KnowledgeItemKeywordScore: 0.7,
		NewsPinnedScore:           0.9,
		NewsScore:                 0.6,
		EmployeeProfileScore:      0.7,
		UserAccountScore:          0.65,
		ConnectorScore:            0.6,
		SemanticThreshold:         0.3,
		SemanticBoost:             0.3,
		KeywordLimit:              50,
		MaxKeywordLimit:           200,
		SemanticCandidateLimit:    200,
		StrategyTimeout:           3 * time.Second,
		SearchTimeout:             8 * time.Second,
		DefaultLimit:              20,
		MaxLimit:                  100,
		ConnectorSearchLive:       false,
	}
}

// Validate checks the config for values the ranking cannot work with
func (c RankingConfig) Validate() error {
	scores := map[string]float64{
		"article_keyword_score":        c.ArticleKeywordScore,
		"knowledge_item_keyword_score": c.KnowledgeItemKeywordScore,
		"news_pinned_score":            c.NewsPinnedScore,
		"news_score":                   c.NewsScore,
		"employee_profile_score":       c.EmployeeProfileScore,
		"user_account_score":           c.UserAccountScore,
		"connector_score":              c.ConnectorScore,
		"semantic_threshold":           c.SemanticThreshold,
		"semantic_boost":               c.SemanticBoost,
	}
	for name, v := range scores {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: %s must be within [0, 1], got %v", ErrInvalidInput, name, v)
		}
	}
	if c.KeywordLimit <= 0 || c.MaxKeywordLimit < c.KeywordLimit {
		return fmt.Errorf("%w: keyword limits must be positive and max >= default", ErrInvalidInput)
	}
	if c.SemanticCandidateLimit <= 0 {
		return fmt.Errorf("%w: semantic_candidate_limit must be positive", ErrInvalidInput)
	}
	if c.StrategyTimeout <= 0 || c.SearchTimeout <= 0 {
		return fmt.Errorf("%w: timeouts must be positive", ErrInvalidInput)
	}
	if c.DefaultLimit <= 0 || c.MaxLimit < c.DefaultLimit {
		return fmt.Errorf("%w: page limits must be positive and max >= default", ErrInvalidInput)
	}
	return nil
}

// PerSourceLimit returns how many keyword hits a strategy fetches for a page.
// A strategy needs at least offset+limit hits for deep pages to be stable.
func (c RankingConfig) PerSourceLimit(limit, offset int) int {
	if offset > c.MaxKeywordLimit-limit {
		return c.MaxKeywordLimit
	}
	return max(limit+offset, c.KeywordLimit)
}
