package utils

import (
	"log"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// 远程调用的有界重试参数
var (
	retryInitialInterval = 500 * time.Millisecond
	retryMaxInterval     = 30 * time.Second
	retryMaxAttempts     = uint64(5)
)

// Permanent 标记不可重试的错误（校验错误、4xx 等），Retry 遇到后立即返回
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Retry 以有界指数退避重试 operation。
// 只适用于幂等的远程调用；超出最大次数后返回最后一次的错误。
func Retry(name string, operation func() error) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = retryInitialInterval
	policy.MaxInterval = retryMaxInterval
	policy.MaxElapsedTime = 0 // 只按次数限制

	notify := func(err error, next time.Duration) {
		log.Printf("[Retry] %s 失败: %v，%v 后重试", name, err, next)
	}
	return backoff.RetryNotify(operation, backoff.WithMaxRetries(policy, retryMaxAttempts), notify)
}
