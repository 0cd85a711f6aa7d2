package mentor

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/abhisek/kidtimer/internal/goals"
	"github.com/abhisek/kidtimer/internal/i18n"
)

const systemPrompt = `你是一个友善的儿童学习导师"小智"，负责帮助8-12岁的孩子管理学习目标。

注意：
- 语气要适合孩子，温暖有爱
- 如果进度落后，不要批评，而是给出追赶建议
- 如果进度良好，要表扬并鼓励保持
- 建议要具体可行`

var dayNames = [...]string{"周日", "周一", "周二", "周三", "周四", "周五", "周六"}

// formatDate renders now as "5月8日".
func formatDate(now time.Time) string {
	return fmt.Sprintf("%d月%d日", int(now.Month()), now.Day())
}

// goalLine describes one goal the way the prompt expects it.
func goalLine(p goals.Progress) string {
	perSession := 0
	if p.TargetSessions > 0 {
		perSession = int(math.Round(float64(p.TargetTotalMinutes) / float64(p.TargetSessions)))
	}
	return fmt.Sprintf("- %s: 目标每周%d次（每次%d分钟），已完成%d次，共%d分钟",
		p.Name, p.TargetSessions, perSession, p.CompletedSessions, p.TotalMinutes)
}

func buildUserMessage(in Input) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("当前日期：%s（%s）\n", formatDate(in.Now), dayNames[in.Now.Weekday()]))
	b.WriteString(fmt.Sprintf("本周还剩 %d 天\n", in.DaysLeft))

	b.WriteString("\n孩子的目标和完成情况：\n")
	lines := make([]string, len(in.Progress))
	for i, p := range in.Progress {
		lines[i] = goalLine(p)
	}
	b.WriteString(strings.Join(lines, "\n"))

	b.WriteString("\n\n请用温暖鼓励的语气回复，包含 summary（本周进度总结，1-2句话）、suggestion（今天的建议，具体1-2个活动，考虑剩余天数）和 encouragement（一句鼓励的话，可以用表情符号）。")

	if lang := i18n.Match(in.Language); lang != i18n.Fallback {
		b.WriteString(fmt.Sprintf("\n请全部使用%s回复。", i18n.Lookup(lang).Name))
	}
	return b.String()
}
