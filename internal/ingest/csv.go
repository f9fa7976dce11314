package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// RawTable 上传文件的原始表格：表头 + 未定型的单元格
// 此处不做任何类型转换，定型统一发生在 schema 包
type RawTable struct {
	Header []string
	Rows   [][]string
}

// ColumnIndex 返回列名到下标的映射（列名去除首尾空白）
func (t *RawTable) ColumnIndex() map[string]int {
	idx := make(map[string]int, len(t.Header))
	for i, name := range t.Header {
		idx[strings.TrimSpace(name)] = i
	}
	return idx
}

// ReadCSV 读取逗号分隔、带表头的 CSV
// 单元格数量不一致的行保留原样（FieldsPerRecord=-1），由归一化阶段按行处理
func ReadCSV(r io.Reader) (*RawTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty file: missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row: %w", err)
		}
		rows = append(rows, record)
	}

	return &RawTable{Header: header, Rows: rows}, nil
}

// ReadCSVFile 读取本地 CSV 文件
func ReadCSVFile(path string) (*RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv file: %w", err)
	}
	defer f.Close()

	return ReadCSV(f)
}
