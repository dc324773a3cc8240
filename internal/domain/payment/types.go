package payment

// Status is the provider-facing payment lifecycle. success, failed and
// refunded are terminal; a callback landing on a terminal payment is
// acknowledged without effect.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusSuccess    Status = "success"
	StatusFailed     Status = "failed"
	StatusRefunded   Status = "refunded"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusSuccess, StatusFailed, StatusRefunded:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	switch s {
	case StatusSuccess, StatusFailed, StatusRefunded:
		return true
	default:
		return false
	}
}

// Method identifies the upstream channel that settled the payment.
type Method string

const (
	MethodWechat   Method = "wechat"
	MethodAlipay   Method = "alipay"
	MethodCard     Method = "card"
	MethodTransfer Method = "transfer"
)

func (m Method) IsValid() bool {
	switch m {
	case MethodWechat, MethodAlipay, MethodCard, MethodTransfer:
		return true
	default:
		return false
	}
}
