package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"feedback-system/backend/internal/dto"
	"feedback-system/backend/internal/model"
)

// ErrExportGenerateFail 生成 Excel 失败
var ErrExportGenerateFail = errors.New("生成 Excel 文件失败")

// 周报导出的 Sheet 名称
const (
	SheetSummary      = "概览"
	SheetDistribution = "评分分布"
	SheetCourses      = "课程统计"
	SheetComments     = "最近评论"
)

// ═══════════════════════════════════════════════════════════
// ExportWeeklyReport — 导出周报为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - "概览"：周期、生成时间与总体统计
//   - "评分分布"：5 → 1 星逐行，缺失评分补 0
//   - "课程统计"：按反馈数倒序，同数按课程名排序
//   - "最近评论"：最近 5 条
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *reportService) ExportWeeklyReport(ctx context.Context) (*bytes.Buffer, string, error) {
	report, err := s.GenerateWeeklyReport(ctx)
	if err != nil {
		return nil, "", err
	}

	buf, err := renderWeeklyWorkbook(report)
	if err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("weekly_report_%s.xlsx", s.now().UTC().Format("20060102"))
	return buf, filename, nil
}

func renderWeeklyWorkbook(r *dto.WeeklyReport) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	// 默认 Sheet1 重命名为概览
	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, err
	}
	for _, name := range []string{SheetDistribution, SheetCourses, SheetComments} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}

	// 概览
	summary := [][]interface{}{
		{"项目", "值"},
		{"统计开始", r.PeriodStart},
		{"统计结束", r.PeriodEnd},
		{"生成时间", r.ReportGeneratedAt},
		{"反馈总数", r.TotalFeedbacks},
		{"紧急反馈", r.UrgentFeedbacks},
		{"低分反馈", r.CriticalFeedbacks},
		{"平均评分", r.AverageRating},
	}
	if err := writeRows(f, SheetSummary, summary, headerStyle); err != nil {
		return nil, err
	}
	f.SetColWidth(SheetSummary, "A", "A", 14)
	f.SetColWidth(SheetSummary, "B", "B", 28)

	// 评分分布
	dist := [][]interface{}{{"评分", "数量"}}
	for rating := model.MaxRating; rating >= model.MinRating; rating-- {
		dist = append(dist, []interface{}{rating, r.RatingDistribution[rating]})
	}
	if err := writeRows(f, SheetDistribution, dist, headerStyle); err != nil {
		return nil, err
	}

	// 课程统计
	courses := make([]string, 0, len(r.TopCourses))
	for c := range r.TopCourses {
		courses = append(courses, c)
	}
	sort.Slice(courses, func(i, j int) bool {
		ci, cj := r.TopCourses[courses[i]], r.TopCourses[courses[j]]
		if ci != cj {
			return ci > cj
		}
		return courses[i] < courses[j]
	})
	courseRows := [][]interface{}{{"课程", "反馈数"}}
	for _, c := range courses {
		courseRows = append(courseRows, []interface{}{c, r.TopCourses[c]})
	}
	if err := writeRows(f, SheetCourses, courseRows, headerStyle); err != nil {
		return nil, err
	}
	f.SetColWidth(SheetCourses, "A", "A", 24)

	// 最近评论
	commentRows := [][]interface{}{{"课程", "评分", "评论", "时间"}}
	for _, c := range r.RecentComments {
		commentRows = append(commentRows, []interface{}{c.Course, c.Rating, c.Comment, c.Date})
	}
	if err := writeRows(f, SheetComments, commentRows, headerStyle); err != nil {
		return nil, err
	}
	f.SetColWidth(SheetComments, "A", "A", 20)
	f.SetColWidth(SheetComments, "C", "C", 60)
	f.SetColWidth(SheetComments, "D", "D", 24)

	f.SetActiveSheet(0)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// writeRows 从 A1 开始逐行写入，首行为表头
func writeRows(f *excelize.File, sheet string, rows [][]interface{}, headerStyle int) error {
	for i, row := range rows {
		start, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, start, &row); err != nil {
			return err
		}
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		end, _ := excelize.CoordinatesToCellName(len(rows[0]), 1)
		return f.SetCellStyle(sheet, "A1", end, headerStyle)
	}
	return nil
}
