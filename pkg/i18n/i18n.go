// Package i18n translates message keys into user-facing text.
package i18n

import (
	"golang.org/x/text/language"
)

const (
	English    = "en"
	Vietnamese = "vi"
)

var matcher = language.NewMatcher([]language.Tag{
	language.English,
	language.Vietnamese,
})

var catalog = map[string]map[string]string{
	English: {
		"BAD_REQUEST":               "Bad request",
		"UNAUTHORIZED":              "Unauthorized",
		"FORBIDDEN":                 "You do not have permission to perform this action",
		"NOT_FOUND":                 "Resource not found",
		"TOO_MANY_REQUESTS":         "Too many requests, please try again later",
		"INTERNAL_SERVER_ERROR":     "Internal server error",
		"VALIDATION_FAILED":         "Request validation failed",
		"EMAIL_EXIST":               "Email already exists",
		"PHONE_EXIST":               "Phone number already exists",
		"EMAIL_OR_PASSWORD_INVALID": "Email or password is invalid",
		"EMAIL_NOT_VERIFIED":        "Email has not been verified",
		"EMAIL_ALREADY_VERIFIED":    "Email is already verified",
		"ACCOUNT_IS_BANNED":         "Account is banned",
		"ACCOUNT_IS_SUSPENDED":      "Account is suspended",
		"USER_NOT_FOUND":            "User not found",
		"EMAIL_NOT_EXIST":           "No account is registered with this email",
		"INVALID_OTP":               "OTP is invalid or expired",
		"TOKEN_EXPIRED":             "Token has expired",
		"TOKEN_INVALID":             "Token is invalid",
		"LOGOUT_FAILED":             "Logout failed",
		"OLD_PASSWORD_INVALID":      "Old password is incorrect",
		"STATUS_INVALID":            "Status is invalid for this action",
		"NO_LINKED_ACCOUNTS":        "User has no linked bank accounts",
		"BANK_NOT_FOUND":            "Bank not found",
		"INVALID_BANK_CREDENTIALS":  "Invalid bank credentials",
		"INVALID_TRANSACTION":       "Invalid transaction ID",
		"CANNOT_MODIFY_SELF":        "You cannot perform this action on your own account",
		"CANNOT_MODIFY_ADMIN":       "You cannot perform this action on an administrator",
		"REGISTER_SUCCESS":          "Registration successful, please check your email for the verification code",
		"VERIFY_EMAIL_SUCCESS":      "Email verified successfully",
		"OTP_SENT":                  "A verification code has been sent to your email",
		"LOGIN_SUCCESS":             "Login successful",
		"LOGIN_OTP_REQUIRED":        "A login code has been sent to your email",
		"LOGOUT_SUCCESS":            "Logout successful",
		"PASSWORD_CHANGED":          "Password changed successfully",
		"PASSWORD_RESET":            "Password reset successfully",
		"REQUEST_IN_PROGRESS":       "A request with this idempotency key is already in progress",
		"SUCCESS":                   "Success",
		"UPDATE_SUCCESS":            "Updated successfully",
		"DELETE_SUCCESS":            "Deleted successfully",
		"SUSPEND_SUCCESS":           "User suspended",
		"ACTIVATE_SUCCESS":          "User activated",
		"BAN_SUCCESS":               "User banned",
		"DEVICE_UNTRUSTED":          "Device is no longer trusted",
		"BANK_LINK_OTP_REQUIRED":    "Enter the code sent by your bank to finish linking",
		"BANK_LINKED":               "Bank linked successfully",
		"BANK_DISCONNECTED":         "Bank disconnected",
		"CONTACT_CREATED":           "Thank you, we will get back to you soon",
		"CONTACT_RESPONDED":         "Response sent",
		"FILE_IS_REQUIRED":          "A file is required",
		"FILE_SIZE_INVALID":         "File exceeds the 5 MB limit",
		"FILE_TYPE_INVALID":         "Only JPEG, PNG and GIF images are accepted",
		"FILE_MAXIMUM_QUANTITY":     "At most 15 files can be uploaded at once",
		"UPLOAD_FAILED":             "Upload failed",
		"UPLOAD_SUCCESS":            "Uploaded successfully",
	},
	Vietnamese: {
		"BAD_REQUEST":               "Yêu cầu không hợp lệ",
		"UNAUTHORIZED":              "Chưa xác thực",
		"FORBIDDEN":                 "Bạn không có quyền thực hiện thao tác này",
		"NOT_FOUND":                 "Không tìm thấy tài nguyên",
		"TOO_MANY_REQUESTS":         "Quá nhiều yêu cầu, vui lòng thử lại sau",
		"INTERNAL_SERVER_ERROR":     "Lỗi máy chủ",
		"VALIDATION_FAILED":         "Dữ liệu không hợp lệ",
		"EMAIL_EXIST":               "Email đã tồn tại",
		"PHONE_EXIST":               "Số điện thoại đã tồn tại",
		"EMAIL_OR_PASSWORD_INVALID": "Email hoặc mật khẩu không đúng",
		"EMAIL_NOT_VERIFIED":        "Email chưa được xác thực",
		"EMAIL_ALREADY_VERIFIED":    "Email đã được xác thực",
		"ACCOUNT_IS_BANNED":         "Tài khoản đã bị cấm",
		"ACCOUNT_IS_SUSPENDED":      "Tài khoản đang bị tạm khóa",
		"USER_NOT_FOUND":            "Không tìm thấy người dùng",
		"EMAIL_NOT_EXIST":           "Email chưa được đăng ký",
		"INVALID_OTP":               "Mã OTP không hợp lệ hoặc đã hết hạn",
		"TOKEN_EXPIRED":             "Token đã hết hạn",
		"TOKEN_INVALID":             "Token không hợp lệ",
		"LOGOUT_FAILED":             "Đăng xuất thất bại",
		"OLD_PASSWORD_INVALID":      "Mật khẩu cũ không đúng",
		"STATUS_INVALID":            "Trạng thái không hợp lệ",
		"NO_LINKED_ACCOUNTS":        "Người dùng chưa liên kết tài khoản ngân hàng",
		"BANK_NOT_FOUND":            "Không tìm thấy ngân hàng",
		"INVALID_BANK_CREDENTIALS":  "Thông tin đăng nhập ngân hàng không đúng",
		"INVALID_TRANSACTION":       "Mã giao dịch không hợp lệ",
		"CANNOT_MODIFY_SELF":        "Bạn không thể thực hiện thao tác này trên chính tài khoản của mình",
		"CANNOT_MODIFY_ADMIN":       "Bạn không thể thực hiện thao tác này trên quản trị viên",
		"REGISTER_SUCCESS":          "Đăng ký thành công, vui lòng kiểm tra email để lấy mã xác thực",
		"VERIFY_EMAIL_SUCCESS":      "Xác thực email thành công",
		"OTP_SENT":                  "Mã xác thực đã được gửi tới email của bạn",
		"LOGIN_SUCCESS":             "Đăng nhập thành công",
		"LOGIN_OTP_REQUIRED":        "Mã đăng nhập đã được gửi tới email của bạn",
		"LOGOUT_SUCCESS":            "Đăng xuất thành công",
		"PASSWORD_CHANGED":          "Đổi mật khẩu thành công",
		"PASSWORD_RESET":            "Đặt lại mật khẩu thành công",
		"REQUEST_IN_PROGRESS":       "Yêu cầu với khóa idempotency này đang được xử lý",
		"SUCCESS":                   "Thành công",
		"UPDATE_SUCCESS":            "Cập nhật thành công",
		"DELETE_SUCCESS":            "Xóa thành công",
		"SUSPEND_SUCCESS":           "Đã tạm khóa người dùng",
		"ACTIVATE_SUCCESS":          "Đã kích hoạt người dùng",
		"BAN_SUCCESS":               "Đã cấm người dùng",
		"DEVICE_UNTRUSTED":          "Thiết bị không còn được tin cậy",
		"BANK_LINK_OTP_REQUIRED":    "Nhập mã do ngân hàng gửi để hoàn tất liên kết",
		"BANK_LINKED":               "Liên kết ngân hàng thành công",
		"BANK_DISCONNECTED":         "Đã hủy liên kết ngân hàng",
		"CONTACT_CREATED":           "Cảm ơn bạn, chúng tôi sẽ phản hồi sớm",
		"CONTACT_RESPONDED":         "Đã gửi phản hồi",
		"FILE_IS_REQUIRED":          "Vui lòng chọn tệp",
		"FILE_SIZE_INVALID":         "Tệp vượt quá giới hạn 5 MB",
		"FILE_TYPE_INVALID":         "Chỉ chấp nhận ảnh JPEG, PNG và GIF",
		"FILE_MAXIMUM_QUANTITY":     "Chỉ được tải lên tối đa 15 tệp mỗi lần",
		"UPLOAD_FAILED":             "Tải lên thất bại",
		"UPLOAD_SUCCESS":            "Tải lên thành công",
	},
}

// Match picks the supported language for an Accept-Language header value.
func Match(acceptLanguage string) string {
	if acceptLanguage == "" {
		return English
	}
	tag, _ := language.MatchStrings(matcher, acceptLanguage)
	base, _ := tag.Base()
	if _, ok := catalog[base.String()]; ok {
		return base.String()
	}
	return English
}

// Translate returns the text for key in lang, falling back to English and then to the key itself.
func Translate(lang, key string) string {
	if msgs, ok := catalog[lang]; ok {
		if msg, ok := msgs[key]; ok {
			return msg
		}
	}
	if msg, ok := catalog[English][key]; ok {
		return msg
	}
	return key
}
