package errors

import "errors"

// ErrStoreUnavailable 存储层不可用（连接失败、超时等基础设施错误），请求直接失败，不做内联重试
var ErrStoreUnavailable = errors.New("存储服务暂不可用")
