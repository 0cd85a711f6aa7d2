package i18n

// Message keys.
const (
	KeyAppTitle          = "app.title"
	KeyTodayReward       = "reward.today"
	KeyNoActivities      = "activity.none"
	KeyStart             = "timer.start"
	KeyStop              = "timer.stop"
	KeyRunning           = "timer.running"
	KeyTooShort          = "timer.too_short"
	KeySessionSaved      = "timer.saved"
	KeyHistory           = "history.title"
	KeyHistoryEmpty      = "history.empty"
	KeyMentorTitle       = "mentor.title"
	KeyMentorLoading     = "mentor.loading"
	KeyMentorNoGoals     = "mentor.no_goals"
	KeyDaysLeft          = "mentor.days_left"
	KeyResetConfirm      = "reset.confirm"
	KeyResetDone         = "reset.done"
	KeyImportDone        = "backup.imported"
	KeyImportFailed      = "backup.import_failed"
	KeyOfflineSummary    = "mentor.offline.summary"
	KeyOfflineSuggestion = "mentor.offline.suggestion"
	KeyOfflineEncourage  = "mentor.offline.encouragement"
	KeyRetrySummary      = "mentor.retry.summary"
	KeyRetrySuggestion   = "mentor.retry.suggestion"
	KeyRetryEncourage    = "mentor.retry.encouragement"
)

// catalog holds complete Chinese and English tables. Other languages carry
// the mentor fallbacks and the timer alerts a child is most likely to see.
var catalog = map[string]map[string]string{
	"zh": {
		KeyAppTitle:          "儿童计时奖励",
		KeyTodayReward:       "今日奖励：%s",
		KeyNoActivities:      "还没有活动，先添加一个吧！",
		KeyStart:             "开始",
		KeyStop:              "停止",
		KeyRunning:           "进行中",
		KeyTooShort:          "时间太短（不足1分钟），本次不记录。",
		KeySessionSaved:      "已记录 %s，获得 %s 奖励时间！",
		KeyHistory:           "历史记录",
		KeyHistoryEmpty:      "还没有记录",
		KeyMentorTitle:       "小智导师",
		KeyMentorLoading:     "小智正在思考…",
		KeyMentorNoGoals:     "还没有设置每周目标。",
		KeyDaysLeft:          "本周还剩 %d 天",
		KeyResetConfirm:      "确定要清除今天的所有记录吗？",
		KeyResetDone:         "已清除今天的 %d 条记录",
		KeyImportDone:        "数据导入成功！",
		KeyImportFailed:      "文件解析失败，这是有效的 JSON 备份吗？",
		KeyOfflineSummary:    "欢迎回来！继续努力完成你的目标吧！",
		KeyOfflineSuggestion: "今天可以选择一个活动开始练习。",
		KeyOfflineEncourage:  "相信自己，你可以做到！💪",
		KeyRetrySummary:      "欢迎回来！让我们一起看看本周的目标吧。",
		KeyRetrySuggestion:   "选择一个你最想完成的活动开始吧！",
		KeyRetryEncourage:    "每一点进步都值得骄傲！🌟",
	},
	"en": {
		KeyAppTitle:          "Kid Timer",
		KeyTodayReward:       "Today's reward: %s",
		KeyNoActivities:      "No activities yet. Add one first!",
		KeyStart:             "Start",
		KeyStop:              "Stop",
		KeyRunning:           "Running",
		KeyTooShort:          "Session too short (< 1 minute), not recorded.",
		KeySessionSaved:      "Logged %s and earned %s of reward time!",
		KeyHistory:           "History",
		KeyHistoryEmpty:      "No history yet",
		KeyMentorTitle:       "Mentor",
		KeyMentorLoading:     "Thinking…",
		KeyMentorNoGoals:     "No weekly goals set yet.",
		KeyDaysLeft:          "%d days left this week",
		KeyResetConfirm:      "Clear all of today's logs?",
		KeyResetDone:         "Cleared %d logs from today",
		KeyImportDone:        "Data imported successfully!",
		KeyImportFailed:      "Failed to parse file. Is it a valid JSON backup?",
		KeyOfflineSummary:    "Welcome back! Keep working towards your goals!",
		KeyOfflineSuggestion: "Pick an activity and start practicing today.",
		KeyOfflineEncourage:  "Believe in yourself, you can do it! 💪",
		KeyRetrySummary:      "Welcome back! Let's look at this week's goals together.",
		KeyRetrySuggestion:   "Start with the activity you most want to finish!",
		KeyRetryEncourage:    "Every bit of progress is worth being proud of! 🌟",
	},
	"sv": {
		KeyTooShort:          "För kort pass (< 1 minut), sparas inte.",
		KeyOfflineSummary:    "Välkommen tillbaka! Fortsätt jobba mot dina mål!",
		KeyOfflineSuggestion: "Välj en aktivitet och börja öva i dag.",
		KeyOfflineEncourage:  "Tro på dig själv, du klarar det! 💪",
	},
	"de": {
		KeyTooShort:          "Zu kurz (< 1 Minute), wird nicht gespeichert.",
		KeyOfflineSummary:    "Willkommen zurück! Bleib an deinen Zielen dran!",
		KeyOfflineSuggestion: "Such dir heute eine Aktivität aus und fang an.",
		KeyOfflineEncourage:  "Glaub an dich, du schaffst das! 💪",
	},
	"fr": {
		KeyTooShort:          "Séance trop courte (< 1 minute), non enregistrée.",
		KeyOfflineSummary:    "Bon retour ! Continue vers tes objectifs !",
		KeyOfflineSuggestion: "Choisis une activité et commence aujourd'hui.",
		KeyOfflineEncourage:  "Crois en toi, tu peux le faire ! 💪",
	},
	"es": {
		KeyTooShort:          "Sesión demasiado corta (< 1 minuto), no se guarda.",
		KeyOfflineSummary:    "¡Bienvenido de nuevo! ¡Sigue con tus metas!",
		KeyOfflineSuggestion: "Elige una actividad y empieza a practicar hoy.",
		KeyOfflineEncourage:  "¡Cree en ti, tú puedes! 💪",
	},
	"ja": {
		KeyTooShort:          "1分未満のため記録されません。",
		KeyOfflineSummary:    "おかえり！目標に向かってがんばろう！",
		KeyOfflineSuggestion: "今日はアクティビティをひとつ選んで始めよう。",
		KeyOfflineEncourage:  "自分を信じて、きっとできるよ！💪",
	},
	"ko": {
		KeyTooShort:          "1분 미만이라 기록되지 않았어요.",
		KeyOfflineSummary:    "다시 온 걸 환영해! 목표를 향해 계속 힘내자!",
		KeyOfflineSuggestion: "오늘은 활동 하나를 골라 연습을 시작해 보자.",
		KeyOfflineEncourage:  "너 자신을 믿어, 넌 할 수 있어! 💪",
	},
}
