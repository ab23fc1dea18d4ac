package testutils

import (
	"context"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"terminal-terrace/atlas-forum/packages/authsdk"
)

// TopicsIndexKey mirrors the forum's sorted set of topic ids.
const TopicsIndexKey = "topics:tid"

// SeedTopics registers topic ids in the forum's topic index, scored by
// insertion order, the way the forum does when topics are posted.
func SeedTopics(t *testing.T, client *redis.Client, tids ...int) {
	t.Helper()

	ctx := context.Background()
	base := time.Now().UnixMilli()
	for i, tid := range tids {
		member := redis.Z{Score: float64(base + int64(i)), Member: strconv.Itoa(tid)}
		if err := client.ZAdd(ctx, TopicsIndexKey, member).Err(); err != nil {
			t.Fatalf("Failed to seed topic %d: %v", tid, err)
		}
	}
}

// UniqueArticleID returns a catalog-like article id that is unique per call.
func UniqueArticleID() string {
	return fmt.Sprintf("article-%s", uuid.New().String()[:8])
}

// SignedToken issues an access token the way the forum does for a logged in user.
func SignedToken(t *testing.T, secret string, userID int, username string) string {
	t.Helper()

	claims := authsdk.Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return token
}
