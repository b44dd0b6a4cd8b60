package tui

import "github.com/vovakirdan/lumina/internal/catalog"

// ui holds interface text in both languages.
var ui = map[string]catalog.Localized{
	"title":         {EN: "LUMINA", ZH: "光影拼图"},
	"subtitle":      {EN: "Restore the picture, tile by tile", ZH: "一块一块，让画面重现"},
	"chapter":       {EN: "Chapter %d/%d", ZH: "第 %d/%d 章"},
	"locked":        {EN: "locked", ZH: "未解锁"},
	"level_locked":  {EN: "Level %d is locked. Finish the previous level first.", ZH: "第 %d 关尚未解锁，请先完成上一关。"},
	"best":          {EN: "best", ZH: "最佳"},
	"new":           {EN: "new", ZH: "新"},
	"progress":      {EN: "%d/%d cleared  ·  %d unlocked  ·  %d plays", ZH: "已完成 %d/%d  ·  已解锁 %d  ·  共 %d 次"},
	"dev_mode":      {EN: "developer mode: all levels unlocked", ZH: "开发者模式：全部关卡已解锁"},
	"level":         {EN: "Level %d", ZH: "第 %d 关"},
	"moves":         {EN: "Moves", ZH: "步数"},
	"time":          {EN: "Time", ZH: "时间"},
	"misplaced":     {EN: "Misplaced", ZH: "错位"},
	"peek":          {EN: "reference picture", ZH: "参考原图"},
	"image_loading": {EN: "loading picture...", ZH: "图片加载中..."},
	"image_missing": {EN: "picture unavailable", ZH: "图片不可用"},
	"complete":      {EN: "Level Complete!", ZH: "关卡完成！"},
	"score":         {EN: "Score", ZH: "得分"},
	"average":       {EN: "Average", ZH: "平均"},
	"plays":         {EN: "Plays", ZH: "次数"},
	"new_best":      {EN: "New best!", ZH: "新纪录！"},
	"unlocked":      {EN: "Unlocked: %s", ZH: "已解锁：%s"},
	"next_up":       {EN: "Next: %s", ZH: "下一关：%s"},
	"all_done":      {EN: "You have restored every picture.", ZH: "所有画面均已修复。"},
	"thinking":      {EN: "The critic is contemplating...", ZH: "鉴赏家正在品味..."},
	"history":       {EN: "RECENT COMPLETIONS", ZH: "最近完成"},
	"history_empty": {EN: "No completions recorded yet.\nSolve a level to start your history!", ZH: "暂无记录。\n完成一关开始你的旅程！"},
	"no_store":      {EN: "History needs a database.", ZH: "历史记录需要数据库。"},
	"col_date":      {EN: "Date", ZH: "日期"},
	"col_level":     {EN: "Level", ZH: "关卡"},
	"col_score":     {EN: "Score", ZH: "得分"},
	"col_stars":     {EN: "Stars", ZH: "星级"},
	"col_moves":     {EN: "Moves", ZH: "步数"},
	"col_time":      {EN: "Time", ZH: "用时"},
}

// tr returns the interface text for key in lang.
func tr(lang catalog.Language, key string) string {
	if l, ok := ui[key]; ok {
		return l.In(lang)
	}
	return key
}
