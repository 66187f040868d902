// Package mealplan は週間献立プランナーのグリッド構築を提供する。
//
// グリッドは永続化されない。プランナー画面が開かれるたびに、過去の状態に
// かかわらず空のグリッドを組み立て直す。
package mealplan

import "github.com/hitoshi/instachef/internal/model"

// Days はプランナーの行を構成する曜日。元のSPAのフランス語ラベルをそのまま使う。
var Days = []string{"Lundi", "Mardi", "Mercredi", "Jeudi", "Vendredi", "Samedi", "Dimanche"}

// Times は1日の食事区分。
var Times = []string{"Midi", "Soir"}

// Slot は1食分の3品（前菜・主菜・デザート）。値はレシピタイトルの自由テキスト参照。
type Slot struct {
	Entree  string `json:"entree"`
	Plat    string `json:"plat"`
	Dessert string `json:"dessert"`
}

// Grid は day × time → Slot のグリッド。
type Grid map[string]map[string]Slot

// Build は7日×2食の空グリッドを構築して返す。各スロットは独立した空の値。
// 純関数であり、入力にも外部状態にも依存しない。
func Build() Grid {
	grid := make(Grid, len(Days))
	for _, day := range Days {
		grid[day] = make(map[string]Slot, len(Times))
		for _, t := range Times {
			grid[day][t] = Slot{}
		}
	}
	return grid
}

// Options はプランナーの選択肢に出すレシピタイトルの一覧を返す。
// グリッドの中身を埋めるためのものではない。
func Options(recipes []model.Recipe) []string {
	titles := make([]string, 0, len(recipes))
	for _, r := range recipes {
		titles = append(titles, r.Title)
	}
	return titles
}
