// Package dto 提供 HTTP 层数据传输对象
package dto

// UpdatePreferenceRequest 更新用户级模型偏好请求
type UpdatePreferenceRequest struct {
	// ModelPreference 复合标识 "<provider>/<model>"，空串表示清除偏好
	ModelPreference string `json:"model_preference"`
}

// UpsertCredentialRequest 保存用户级供应商凭证请求
type UpsertCredentialRequest struct {
	APIKey string `json:"api_key" binding:"required"`
}

// CredentialResponse 凭证响应，绝不回传密钥明文
type CredentialResponse struct {
	Provider string `json:"provider"`
	Stored   bool   `json:"stored"`
}
