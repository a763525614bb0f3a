package service

// MediaResolver 将库中保存的媒体地址（完整 URL 或对象存储 key）转换为客户端可访问的 URL
type MediaResolver interface {
	Resolve(raw string) string
}

type passthroughResolver struct{}

func (passthroughResolver) Resolve(raw string) string {
	return raw
}

func resolverOrDefault(r MediaResolver) MediaResolver {
	if r == nil {
		return passthroughResolver{}
	}
	return r
}
