package handlers

const defaultPageLimit = 100

type pagination struct {
	showAll bool
	page    int // 从 0 开始
	limit   int // 展示全部时为 -1
}

// parsePagination maps the 1-based ?page= and ?limit= onto offsets; page=0&limit=0 lists everything.
func (a *App) parsePagination(page *uint, limit *uint) pagination {
	if page != nil && *page == 0 && limit != nil && *limit == 0 {
		// 特殊参数：展示全部
		return pagination{showAll: true, page: 0, limit: -1}
	}

	p := pagination{page: 0, limit: defaultPageLimit}
	if page != nil && *page >= 1 {
		p.page = int(*page - 1)
	}
	if limit != nil && *limit > 0 {
		p.limit = int(*limit)
	}
	return p
}

func (p pagination) offset() int {
	if p.showAll {
		return 0
	}
	return p.page * p.limit
}

func (p pagination) maxPage(count int64) int64 {
	if p.showAll {
		return 1
	}
	pageMax := count / int64(p.limit)
	if count%int64(p.limit) != 0 {
		pageMax++
	}
	return pageMax
}
