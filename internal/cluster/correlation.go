package cluster

import (
	"gonum.org/v1/gonum/stat"
)

// hasVariance 序列是否有方差（常数序列与 Pearson 相关系数无定义）
func hasVariance(xs []float64) bool {
	if len(xs) < 2 {
		return false
	}
	first := xs[0]
	for _, v := range xs[1:] {
		if v != first {
			return true
		}
	}
	return false
}

// correlationMatrix 计算房间两两 Pearson 相关系数
// defined[i] 为 false 的房间（实测槽数 < 2 或零方差）与任何房间的相关性
// 无定义，矩阵对应行列填 0，绝不让 NaN 流出本包
func correlationMatrix(series *alignedSeries) (matrix [][]float64, defined []bool) {
	n := len(series.Rooms)
	defined = make([]bool, n)
	for i := 0; i < n; i++ {
		defined[i] = series.Observed[i] >= 2 && hasVariance(series.Values[i])
	}

	matrix = make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		if !defined[i] {
			continue
		}
		matrix[i][i] = 1
		for j := i + 1; j < n; j++ {
			if !defined[j] {
				continue
			}
			r := stat.Correlation(series.Values[i], series.Values[j], nil)
			matrix[i][j] = r
			matrix[j][i] = r
		}
	}
	return matrix, defined
}
