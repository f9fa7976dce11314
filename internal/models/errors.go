package models

import (
	"fmt"
	"strings"
)

// SchemaError 表示上传文件整体缺失必需列，批次级致命错误，不做行级恢复
type SchemaError struct {
	MissingColumns []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing mandatory columns: %s", strings.Join(e.MissingColumns, ", "))
}

// RowRejection 单行类型转换失败的记录（按行恢复，不中断批次）
type RowRejection struct {
	Row    int    `json:"row"`   // 数据行号，表头后第一行为 1
	Field  string `json:"field"` // 失败的列名（原始德文列名）
	Reason string `json:"reason"`
}

// RejectionReport 归一化结果摘要，调用方用它展示"跳过了 N 行"
// 恒有 Accepted + Rejected == TotalRows
type RejectionReport struct {
	TotalRows  int            `json:"total_rows"`
	Accepted   int            `json:"accepted"`
	Rejected   int            `json:"rejected"`
	Rejections []RowRejection `json:"rejections,omitempty"`
}
