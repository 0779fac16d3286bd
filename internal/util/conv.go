package util

import (
	"fmt"
	"strconv"
)

// MustParseUint 将字符串转换为无符号整数，解析失败时返回 0
func MustParseUint(s string) uint {
	id, _ := strconv.ParseUint(s, 10, 32)
	return uint(id)
}

// NormalizeID 将任意标识符表示规范化为字符串
// 后端/推送通道可能以数字或字符串两种形态传递同一个ID
func NormalizeID(v interface{}) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatInt(int64(id), 10)
	case int:
		return strconv.Itoa(id)
	case int64:
		return strconv.FormatInt(id, 10)
	case uint:
		return strconv.FormatUint(uint64(id), 10)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", id)
	}
}
