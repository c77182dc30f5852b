package folders

import "testing"

func TestPrimaryReturnsFirstConfiguredPath(t *testing.T) {
	reg := New()
	reg.Set("Loras", []string{" /data/loras ", "/backup/loras"})

	primary, ok := reg.Primary(CategoryLoras)
	if !ok {
		t.Fatalf("期望找到 loras 目录")
	}
	if primary != "/data/loras" {
		t.Fatalf("应返回首个目录，得到 %s", primary)
	}
}

func TestPathsReturnsCopy(t *testing.T) {
	reg := New()
	reg.Set(CategoryLoras, []string{"/data/loras"})

	paths := reg.Paths(CategoryLoras)
	paths[0] = "/mutated"

	if again, _ := reg.Primary(CategoryLoras); again != "/data/loras" {
		t.Fatalf("外部修改不应影响注册表，得到 %s", again)
	}
}

func TestPrimaryMissingCategory(t *testing.T) {
	reg := New()
	if _, ok := reg.Primary(CategoryLoras); ok {
		t.Fatalf("未配置类别不应命中")
	}
}

func TestSetIgnoresBlankEntries(t *testing.T) {
	reg := New()
	reg.Set(CategoryLoras, []string{"  ", "", "/data/loras"})

	paths := reg.Paths(CategoryLoras)
	if len(paths) != 1 || paths[0] != "/data/loras" {
		t.Fatalf("空白路径应被忽略: %v", paths)
	}
}

func TestCategoriesSorted(t *testing.T) {
	reg := New()
	reg.Set("vae", []string{"/data/vae"})
	reg.Set("loras", []string{"/data/loras"})

	got := reg.Categories()
	if len(got) != 2 || got[0] != "loras" || got[1] != "vae" {
		t.Fatalf("类别应按字典序排序: %v", got)
	}
}
