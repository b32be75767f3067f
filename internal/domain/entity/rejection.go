package entity

// RejectionReason is a business outcome returned to the caller instead of an error.
type RejectionReason string

const (
	ReasonInvalidQR        RejectionReason = "invalid_qr"
	ReasonVenueClosed      RejectionReason = "venue_closed"
	ReasonOutsideRadius    RejectionReason = "outside_radius"
	ReasonMockLocation     RejectionReason = "mock_location"
	ReasonInvalidToken     RejectionReason = "invalid_token"
	ReasonExpiredToken     RejectionReason = "expired_token"
	ReasonTokenConsumed    RejectionReason = "token_consumed"
	ReasonInvalidBinding   RejectionReason = "invalid_binding"
	ReasonTooFrequent      RejectionReason = "too_frequent"
	ReasonRateLimited      RejectionReason = "rate_limited"
	ReasonStoreUnavailable RejectionReason = "store_unavailable"
)

var rejectionMessages = map[RejectionReason]string{
	ReasonInvalidQR:        "無效的 QR Code，請掃描場地提供的條碼",
	ReasonVenueClosed:      "場地目前未開放",
	ReasonOutsideRadius:    "您不在場地範圍內，請靠近場地後再試",
	ReasonMockLocation:     "偵測到異常定位，請關閉模擬定位後重新掃描",
	ReasonInvalidToken:     "無效的入場憑證",
	ReasonExpiredToken:     "入場憑證已過期，請重新掃描",
	ReasonTokenConsumed:    "入場憑證已使用",
	ReasonInvalidBinding:   "入場憑證不屬於此使用者",
	ReasonTooFrequent:      "定位回報過於頻繁",
	ReasonRateLimited:      "請求過於頻繁，請稍後再試",
	ReasonStoreUnavailable: "服務暫時無法使用，請稍後再試",
}

// String returns the string representation of the RejectionReason.
func (r RejectionReason) String() string {
	return string(r)
}

// Message returns the user-facing text for the reason.
func (r RejectionReason) Message() string {
	return rejectionMessages[r]
}
