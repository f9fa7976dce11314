package cluster

import "sort"

// agglomerate 平均连接（average linkage）层次聚类
// 距离 d = 1 - r；两簇间距离为跨簇点对距离的均值；
// 反复合并最近的两簇，直到最小距离超过 maxDistance。
// 确定性：簇内成员保持升序，候选对按 (i,j) 顺序扫描，严格小于才更新，
// 距离并列时取首个（即最小成员字典序最小的）对
func agglomerate(indices []int, distance func(a, b int) float64, maxDistance float64) [][]int {
	clusters := make([][]int, 0, len(indices))
	for _, idx := range indices {
		clusters = append(clusters, []int{idx})
	}

	for len(clusters) > 1 {
		bestI, bestJ := -1, -1
		bestDist := 0.0
		for i := 0; i < len(clusters); i++ {
			for j := i + 1; j < len(clusters); j++ {
				d := averageLinkage(clusters[i], clusters[j], distance)
				if bestI < 0 || d < bestDist {
					bestI, bestJ, bestDist = i, j, d
				}
			}
		}
		if bestDist > maxDistance {
			break
		}

		merged := append(append([]int{}, clusters[bestI]...), clusters[bestJ]...)
		sort.Ints(merged)

		next := make([][]int, 0, len(clusters)-1)
		for k, c := range clusters {
			if k != bestI && k != bestJ {
				next = append(next, c)
			}
		}
		next = append(next, merged)
		// 按最小成员排序，保证后续扫描顺序与输入顺序无关
		sort.Slice(next, func(a, b int) bool { return next[a][0] < next[b][0] })
		clusters = next
	}

	return clusters
}

func averageLinkage(a, b []int, distance func(x, y int) float64) float64 {
	sum := 0.0
	for _, x := range a {
		for _, y := range b {
			sum += distance(x, y)
		}
	}
	return sum / float64(len(a)*len(b))
}
