package image

import (
	"testing"
)

func TestApplyScalingRules(t *testing.T) {
	tests := []struct {
		name        string
		width       int
		height      int
		maxLongEdge int
		maxPixels   int
		wantW       int
		wantH       int
	}{
		{
			name:        "长边超限等比缩放",
			width:       2000,
			height:      1000,
			maxLongEdge: 1568,
			maxPixels:   10_000_000,
			wantW:       1568,
			wantH:       784,
		},
		{
			name:        "总像素超限等比缩放",
			width:       1200,
			height:      1200,
			maxLongEdge: 1568,
			maxPixels:   1_000_000,
			wantW:       1000,
			wantH:       1000,
		},
		{
			name:        "无需缩放原样返回",
			width:       800,
			height:      600,
			maxLongEdge: 1568,
			maxPixels:   1_150_000,
			wantW:       800,
			wantH:       600,
		},
		{
			name:        "竖图长边超限",
			width:       1000,
			height:      2000,
			maxLongEdge: 1568,
			maxPixels:   10_000_000,
			wantW:       784,
			wantH:       1568,
		},
		{
			name:        "两条规则依次叠加",
			width:       4000,
			height:      4000,
			maxLongEdge: 1568,
			maxPixels:   1_000_000,
			wantW:       1000,
			wantH:       1000,
		},
		{
			name:        "极端比例下每边不小于1像素",
			width:       10000,
			height:      1,
			maxLongEdge: 10,
			maxPixels:   100,
			wantW:       10,
			wantH:       1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotW, gotH := applyScalingRules(tt.width, tt.height, tt.maxLongEdge, tt.maxPixels)
			if gotW != tt.wantW || gotH != tt.wantH {
				t.Errorf("applyScalingRules(%d, %d, %d, %d) = (%d, %d), want (%d, %d)",
					tt.width, tt.height, tt.maxLongEdge, tt.maxPixels, gotW, gotH, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestApplyScalingRules_Invariants(t *testing.T) {
	// 覆盖常见宽高比和极端尺寸
	dims := []struct{ w, h int }{
		{1, 1}, {100, 100}, {640, 480}, {1920, 1080}, {1080, 1920},
		{4096, 4096}, {8000, 100}, {100, 8000}, {65535, 65535},
	}
	limits := []struct{ edge, pixels int }{
		{1568, 1_150_000}, {1568, 400_000}, {100, 5_000}, {2000, 10_000_000},
	}

	for _, d := range dims {
		for _, l := range limits {
			w, h := applyScalingRules(d.w, d.h, l.edge, l.pixels)

			if w < 1 || h < 1 {
				t.Errorf("applyScalingRules(%d, %d, %d, %d) = (%d, %d)，每边必须不小于1",
					d.w, d.h, l.edge, l.pixels, w, h)
			}
			if w > d.w || h > d.h {
				t.Errorf("applyScalingRules(%d, %d, %d, %d) = (%d, %d)，不允许放大",
					d.w, d.h, l.edge, l.pixels, w, h)
			}
			// 长边限制（向下取整后必然满足）
			if w > l.edge || h > l.edge {
				t.Errorf("applyScalingRules(%d, %d, %d, %d) = (%d, %d)，长边超限",
					d.w, d.h, l.edge, l.pixels, w, h)
			}
			// 像素限制（1x1等最小尺寸除外）
			if w*h > l.pixels && (w > 1 && h > 1) {
				t.Errorf("applyScalingRules(%d, %d, %d, %d) = (%d, %d)，总像素 %d 超过 %d",
					d.w, d.h, l.edge, l.pixels, w, h, w*h, l.pixels)
			}

			// 幂等性：对输出再次应用相同规则，结果不变
			w2, h2 := applyScalingRules(w, h, l.edge, l.pixels)
			if w2 != w || h2 != h {
				t.Errorf("缩放结果不幂等: (%d, %d) -> (%d, %d) -> (%d, %d)",
					d.w, d.h, w, h, w2, h2)
			}
		}
	}
}

func TestCalculateTokens(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		height int
		want   uint64
	}{
		{
			name:   "1比1标准尺寸",
			width:  1092,
			height: 1092,
			want:   1590,
		},
		{
			name:   "小图",
			width:  200,
			height: 200,
			want:   53,
		},
		{
			name:   "恰好半个除数向上取整", // 75*75=5625=750*7.5
			width:  75,
			height: 75,
			want:   8,
		},
		{
			name:   "不足半个除数向下取整", // 5624/750=7.498...
			width:  1,
			height: 5624,
			want:   7,
		},
		{
			name:   "最小图片",
			width:  1,
			height: 1,
			want:   0,
		},
		{
			name:   "超大尺寸不溢出",
			width:  65535,
			height: 65535,
			want:   5726448,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateTokens(tt.width, tt.height)
			if got != tt.want {
				t.Errorf("CalculateTokens(%d, %d) = %d, want %d", tt.width, tt.height, got, tt.want)
			}
		})
	}
}

func TestCalculateTokens_Monotonic(t *testing.T) {
	// token 数随总像素单调不减
	var prev uint64
	for side := 1; side <= 2000; side += 7 {
		got := CalculateTokens(side, side)
		if got < prev {
			t.Fatalf("CalculateTokens(%d, %d) = %d，小于更小尺寸的结果 %d", side, side, got, prev)
		}
		prev = got
	}
}

// 基准测试
func BenchmarkApplyScalingRules(b *testing.B) {
	for i := 0; i < b.N; i++ {
		applyScalingRules(4032, 3024, 1568, 1_150_000)
	}
}
