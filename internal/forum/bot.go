package forum

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
)

// UserDirectory 解析机器人账号所需的用户接口
type UserDirectory interface {
	UserByUsername(ctx context.Context, username string) (*User, error)
	CreateUser(ctx context.Context, username, password string) (*User, error)
}

// BotIdentity 自动创建话题时使用的机器人作者
//
// 首次调用 UID 时按用户名查找，不存在则创建，结果在进程内缓存，
// 之后不再检查论坛中的账号是否还存在。Reset 清空缓存。
type BotIdentity struct {
	users    UserDirectory
	username string

	mu  sync.Mutex
	uid int
}

func NewBotIdentity(users UserDirectory, username string) *BotIdentity {
	return &BotIdentity{users: users, username: username}
}

// UID 返回机器人账号的 uid
func (b *BotIdentity) UID(ctx context.Context) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.uid > 0 {
		return b.uid, nil
	}

	user, err := b.users.UserByUsername(ctx, b.username)
	if errors.Is(err, ErrUserNotFound) {
		// 随机密码，账号只通过 master token 使用
		user, err = b.users.CreateUser(ctx, b.username, uuid.NewString())
		if err == nil {
			log.Printf("[forum] 已创建机器人账号 %s uid=%d", b.username, user.UID)
		}
	}
	if err != nil {
		return 0, fmt.Errorf("解析机器人账号 %s 失败: %w", b.username, err)
	}

	b.uid = user.UID
	return b.uid, nil
}

// Reset 清空缓存的 uid，下次调用 UID 时重新解析
func (b *BotIdentity) Reset() {
	b.mu.Lock()
	b.uid = 0
	b.mu.Unlock()
}
